package mocks

import "context"
import "github.com/intelsdi-x/loadsweep/pkg/sweep"
import "github.com/stretchr/testify/mock"

// Trial mock
type Trial struct {
	mock.Mock
}

// Run provides a mock function with given fields: ctx, load
func (_m *Trial) Run(ctx context.Context, load sweep.LoadPoint) (sweep.TrialResult, error) {
	ret := _m.Called(ctx, load)

	var r0 sweep.TrialResult
	if rf, ok := ret.Get(0).(func(context.Context, sweep.LoadPoint) sweep.TrialResult); ok {
		r0 = rf(ctx, load)
	} else {
		r0 = ret.Get(0).(sweep.TrialResult)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, sweep.LoadPoint) error); ok {
		r1 = rf(ctx, load)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
