// Package mocks provides test doubles for the closeio client.
package mocks

import (
	"context"

	closeio "github.com/sells-group/close-import/pkg/closeio"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ListLeads provides a mock function with given fields: ctx
func (_m *MockClient) ListLeads(ctx context.Context) ([]closeio.Lead, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListLeads")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]closeio.Lead, error)); ok {
		return rf(ctx)
	}

	var r0 []closeio.Lead
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]closeio.Lead)
	}
	return r0, ret.Error(1)
}

// ListContacts provides a mock function with given fields: ctx
func (_m *MockClient) ListContacts(ctx context.Context) ([]closeio.Contact, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListContacts")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]closeio.Contact, error)); ok {
		return rf(ctx)
	}

	var r0 []closeio.Contact
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]closeio.Contact)
	}
	return r0, ret.Error(1)
}

// ListLeadCustomFields provides a mock function with given fields: ctx
func (_m *MockClient) ListLeadCustomFields(ctx context.Context) ([]closeio.CustomField, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListLeadCustomFields")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]closeio.CustomField, error)); ok {
		return rf(ctx)
	}

	var r0 []closeio.CustomField
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]closeio.CustomField)
	}
	return r0, ret.Error(1)
}

// CreateLead provides a mock function with given fields: ctx, req
func (_m *MockClient) CreateLead(ctx context.Context, req closeio.LeadCreate) (*closeio.Lead, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for CreateLead")
	}

	if rf, ok := ret.Get(0).(func(context.Context, closeio.LeadCreate) (*closeio.Lead, error)); ok {
		return rf(ctx, req)
	}

	var r0 *closeio.Lead
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*closeio.Lead)
	}
	return r0, ret.Error(1)
}

// CreateContact provides a mock function with given fields: ctx, req
func (_m *MockClient) CreateContact(ctx context.Context, req closeio.ContactCreate) (*closeio.Contact, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for CreateContact")
	}

	if rf, ok := ret.Get(0).(func(context.Context, closeio.ContactCreate) (*closeio.Contact, error)); ok {
		return rf(ctx, req)
	}

	var r0 *closeio.Contact
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*closeio.Contact)
	}
	return r0, ret.Error(1)
}

// CreateLeadCustomField provides a mock function with given fields: ctx, req
func (_m *MockClient) CreateLeadCustomField(ctx context.Context, req closeio.CustomFieldCreate) (*closeio.CustomField, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for CreateLeadCustomField")
	}

	if rf, ok := ret.Get(0).(func(context.Context, closeio.CustomFieldCreate) (*closeio.CustomField, error)); ok {
		return rf(ctx, req)
	}

	var r0 *closeio.CustomField
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*closeio.CustomField)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient. It also registers a
// cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
