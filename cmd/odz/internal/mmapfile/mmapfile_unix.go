//go:build linux || darwin

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

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps f's first size bytes read-only. ok is false if the syscall
// fails, leaving the caller to fall back to a regular read.
func mmap(f *os.File, size int64) (data []byte, ok bool) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false
	}

	// MADV_SEQUENTIAL: the block loop reads the mapping start to end,
	// exactly once, with no backward seeks.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return data, true
}

func unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	return unix.Munmap(data)
}
