// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

var errSample = errors.New("sample violation")

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddAssertion() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddAssertion(true, errSample)
	s.Assert().Len(chain.validators, 1)
	s.Assert().NoError(chain.Validate())
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with all errors", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("dir", "", nil)).
			AddAssertion(false, errSample).
			AddValidator(NewPositiveDurationValidator("interval", time.Second, nil))
		err := chain.Validate()
		s.Assert().Error(err)
		s.Assert().Len(multierr.Errors(err), 2)
		s.Assert().ErrorIs(err, errSample)

		// a second run reports the same violations
		s.Assert().Len(multierr.Errors(chain.Validate()), 2)
	})
	s.Run("with fail fast", func() {
		chain := New(FailFast()).
			AddAssertion(false, errSample).
			AddValidator(NewEmptyStringValidator("dir", " ", nil))
		err := chain.Validate()
		s.Assert().Equal(errSample, err)
	})
	s.Run("with no violation", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("dir", "/tmp", nil)).
			AddValidator(NewPositiveDurationValidator("interval", time.Minute, nil))
		s.Assert().NoError(chain.Validate())
	})
}

func (s *validationTestSuite) TestEmptyStringValidator() {
	err := NewEmptyStringValidator("dir", "", nil).Validate()
	s.Assert().EqualError(err, "dir is required")

	err = NewEmptyStringValidator("dir", "", errSample).Validate()
	s.Assert().ErrorIs(err, errSample)
	s.Assert().EqualError(err, "dir is required: sample violation")
}

func (s *validationTestSuite) TestPositiveDurationValidator() {
	err := NewPositiveDurationValidator("interval", 0, nil).Validate()
	s.Assert().EqualError(err, "interval=(0s) must be positive")

	err = NewPositiveDurationValidator("interval", -time.Second, errSample).Validate()
	s.Assert().ErrorIs(err, errSample)
}
