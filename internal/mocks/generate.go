// Package mocks provides mock implementations for testing the auth engine.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockHost := mocks.NewMockRepositoryHost(ctrl)
//	mockHost.EXPECT().CurrentUser(gomock.Any(), gomock.Any()).Return("octocat", nil)
package mocks

// Generate mocks for the auth ports:
// IdentityProvider (Handoff, AuthState, EndSession), TokenStore (Get, Set,
// Remove), RepositoryHost (CurrentUser, TeamMembership,
// SearchOpenPullRequests), and RoleResolver (Resolve).
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ports_mock.go github.com/adadev/review-ui-api/internal/ports IdentityProvider,TokenStore,RepositoryHost,RoleResolver
