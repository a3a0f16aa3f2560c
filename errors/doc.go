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

// Package errors is a helper package for the error type. It defines the
// VCRError type, an implementation of the error interface, that allows code to
// wrap errors around other errors and to allow normalised formatted output of
// error messages.
//
// Every VCRError has an Errno which says what kind of error it is. The kind
// can be tested for with the Is() function, anywhere in the chain of wrapped
// errors:
//
//	err := movie.ReadFile(fs, "a.m64")
//	if errors.Is(err, errors.CorruptFormat) {
//		fmt.Println("not a movie file")
//	}
//
// The most useful feature is deduplication of wrapped errors. This means that
// code does not need to worry about the immediate context of the function
// which creates the error. For instance:
//
//	func A() error {
//		err := B()
//		if err != nil {
//			return errors.New(errors.FileError, err)
//		}
//		return nil
//	}
//
//	func B() error {
//		return errors.New(errors.FileError, "cannot open a.m64")
//	}
//
// The message for the error returned by A() will be:
//
//	file error: cannot open a.m64
//
// and not
//
//	file error: file error: cannot open a.m64
//
// Plain Go errors can be passed as values to New(). They can be retrieved with
// the Unwrap() function in the usual way, meaning that the standard library
// errors.Is() and errors.As() functions still work for those errors.
package errors
