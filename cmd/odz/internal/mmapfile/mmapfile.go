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

// Package mmapfile gives the CLI a read-only, whole-file view of a regular
// input file without a read(2) copy per block. On platforms (or files)
// where mmap isn't available it falls back to ordinary buffered reads, so
// callers never need to branch on platform support themselves.
package mmapfile

import "os"

// File is a read-only view of a file's entire content as a byte slice.
type File struct {
	data []byte
	f    *os.File
	mm   bool
}

// Open maps path read-only when the platform and file support it, and
// falls back to reading the whole file into a heap buffer otherwise. The
// returned File's Bytes are valid until Close.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if fi.Size() == 0 {
		f.Close()
		return &File{data: nil}, nil
	}

	if data, ok := mmap(f, fi.Size()); ok {
		return &File{data: data, f: f, mm: true}, nil
	}

	// Fall back to a plain read; mmap isn't available on this GOOS, or
	// the syscall failed (e.g. the file lives on a filesystem that
	// doesn't support it).
	data := make([]byte, fi.Size())

	if _, err := readFull(f, data); err != nil {
		f.Close()
		return nil, err
	}

	f.Close()
	return &File{data: data}, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0

	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n

		if err != nil {
			return total, err
		}

		if n == 0 {
			break
		}
	}

	return total, nil
}

// Bytes returns the file's entire content. The caller must not retain it
// past Close.
func (this *File) Bytes() []byte {
	return this.data
}

// Close releases the mapping and closes its descriptor. For the fallback
// path the file was already closed by Open, and Close does nothing.
func (this *File) Close() error {
	if this.mm {
		err := unmap(this.data)
		this.f.Close()
		return err
	}

	return nil
}
