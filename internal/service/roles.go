package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
)

// TeamRoleResolverOptions groups dependencies for TeamRoleResolver.
type TeamRoleResolverOptions struct {
	Host             ports.RepositoryHost
	VolunteerTeamID  string
	InstructorTeamID string
}

// TeamRoleResolver derives the authorization role from team membership on
// the repository host. Both team lookups are issued concurrently and joined:
// precedence depends on both outcomes, so the resolver never computes a role
// from the faster response alone.
type TeamRoleResolver struct {
	host             ports.RepositoryHost
	volunteerTeamID  string
	instructorTeamID string
}

// Ensure compile-time conformance to the port.
var _ ports.RoleResolver = (*TeamRoleResolver)(nil)

// NewTeamRoleResolver constructs a TeamRoleResolver.
func NewTeamRoleResolver(opts TeamRoleResolverOptions) *TeamRoleResolver {
	return &TeamRoleResolver{
		host:             opts.Host,
		volunteerTeamID:  opts.VolunteerTeamID,
		instructorTeamID: opts.InstructorTeamID,
	}
}

// Resolve maps (username, accessToken) to a role. Instructor membership
// wins over volunteer membership; no membership at all is unauthorized.
// Any lookup failure other than absence aborts the whole resolution.
func (r *TeamRoleResolver) Resolve(ctx context.Context, username, accessToken string) (domainauth.Role, error) {
	if username == "" {
		return "", apperrors.Validation("username is required")
	}

	var volunteer, instructor *domainauth.Membership

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.lookup(gctx, r.volunteerTeamID, username, accessToken, &volunteer)
	})
	g.Go(func() error {
		return r.lookup(gctx, r.instructorTeamID, username, accessToken, &instructor)
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("resolve role for %s: %w", username, err)
	}

	switch {
	case instructor != nil:
		return domainauth.RoleInstructor, nil
	case volunteer != nil:
		return domainauth.RoleVolunteer, nil
	default:
		return domainauth.RoleUnauthorized, nil
	}
}

// lookup fetches one team membership into dst. Absence (404) is recovered
// here and never surfaces to the caller.
func (r *TeamRoleResolver) lookup(ctx context.Context, teamID, username, accessToken string, dst **domainauth.Membership) error {
	membership, err := r.host.TeamMembership(ctx, teamID, username, accessToken)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	*dst = membership
	return nil
}
