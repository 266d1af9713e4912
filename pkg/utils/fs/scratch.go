// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fs

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scratch is a private temporary directory owned by exactly one task.
// It is created by AcquireScratch and must be released with Release on every exit path.
type Scratch struct {
	path string
	once sync.Once
	err  error
}

// AcquireScratch creates new uniquely named directory under parent.
// Empty parent means the system temporary directory.
func AcquireScratch(parent, prefix string) (*Scratch, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create scratch parent directory %q", parent)
	}

	path, err := os.MkdirTemp(parent, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create scratch directory in %q", parent)
	}
	logrus.Debugf("scratch: acquired %q", path)

	return &Scratch{path: path}, nil
}

// Path returns location of the scratch directory.
func (s *Scratch) Path() string {
	return s.path
}

// Release removes the directory with all its content.
// It is safe to call Release multiple times; only the first call removes the directory.
func (s *Scratch) Release() error {
	s.once.Do(func() {
		s.err = errors.Wrapf(os.RemoveAll(s.path), "cannot remove scratch directory %q", s.path)
		logrus.Debugf("scratch: released %q", s.path)
	})
	return s.err
}
