// This file is part of m64vcr.
//
// m64vcr is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// m64vcr is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with m64vcr.  If not, see <https://www.gnu.org/licenses/>.

package errors

import (
	"fmt"
	"strings"
)

// Values is the type used to specify arguments for a VCRError.
type Values []interface{}

// VCRError is the error type used by m64vcr.
type VCRError struct {
	Errno  Errno
	Values Values
}

// New is used to create a VCRError. The values are joined to the message for
// the Errno. A value can be another error, including another VCRError.
func New(errno Errno, values ...interface{}) error {
	return VCRError{
		Errno:  errno,
		Values: values,
	}
}

// Errorf is like New() but the values are formatted according to the pattern
// before being appended to the message for the Errno.
func Errorf(errno Errno, pattern string, values ...interface{}) error {
	return VCRError{
		Errno:  errno,
		Values: Values{fmt.Sprintf(pattern, values...)},
	}
}

// Error returns the normalised error message. Normalisation being the removal
// of duplicate adjacent error messsage parts in the error message chain.
//
// Implements the go language error interface.
func (er VCRError) Error() string {
	msg, ok := messages[er.Errno]
	if !ok {
		msg = fmt.Sprintf("unknown error (%d)", er.Errno)
	}

	parts := make([]string, 0, len(er.Values)+1)
	parts = append(parts, msg)
	for _, v := range er.Values {
		switch v := v.(type) {
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}

	// de-duplicate error message parts. splitting the joined string again
	// because a wrapped error will itself contain more than one part
	p := strings.Split(strings.Join(parts, ": "), ": ")
	n := make([]string, 0, len(p))
	for i := range p {
		if i > 0 && p[i] == p[i-1] {
			continue
		}
		n = append(n, p[i])
	}

	return strings.Join(n, ": ")
}

// Unwrap returns the first value that is an error. Implements the interface
// expected by the errors package in the standard library.
func (er VCRError) Unwrap() error {
	for _, v := range er.Values {
		if e, ok := v.(error); ok {
			return e
		}
	}
	return nil
}

// Is checks if error is a VCRError of the specified Errno. The check is
// performed on every VCRError in the chain of wrapped errors.
func Is(err error, errno Errno) bool {
	for err != nil {
		if er, ok := err.(VCRError); ok {
			if er.Errno == errno {
				return true
			}
			err = er.Unwrap()
			continue
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsAny checks if the error is a VCRError of any kind.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(VCRError)
	return ok
}
