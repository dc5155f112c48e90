//go:build !linux && !darwin

/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mmapfile

import "os"

// mmap is unavailable on this GOOS; Open always falls back to a plain read.
func mmap(f *os.File, size int64) (data []byte, ok bool) {
	return nil, false
}

func unmap(data []byte) error {
	return nil
}
