package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	users := &service.UserService{}

	tests := []struct {
		name string
		p    domain.Principal
		min  domain.Role
		want error
	}{
		{"anonymous", domain.Anonymous, domain.RoleUser, service.ErrNoSession},
		{"user below admin", domain.Principal{User: domain.User{ID: "u", Role: domain.RoleUser}, SessionID: "s"}, domain.RoleAdmin, service.ErrInsufficientRole},
		{"role 1 below admin", domain.Principal{User: domain.User{ID: "u", Role: domain.Role(1)}, SessionID: "s"}, domain.RoleAdmin, service.ErrInsufficientRole},
		{"admin at threshold", domain.Principal{User: domain.User{ID: "u", Role: domain.RoleAdmin}, SessionID: "s"}, domain.RoleAdmin, nil},
		{"user page", domain.Principal{User: domain.User{ID: "u", Role: domain.RoleUser}, SessionID: "s"}, domain.RoleUser, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.Authorize(tt.p, tt.min)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, service.CodeAuth, service.Code(err))
		})
	}
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin := f.createUser(t, "admin@menloschool.org", "pw", domain.RoleAdmin)
	target := f.createUser(t, "jdoe@menloschool.org", "pw", domain.RoleUser)

	asAdmin := domain.Principal{User: admin, SessionID: "s1"}
	asUser := domain.Principal{User: target, SessionID: "s2"}

	err := f.users.SetRole(ctx, asUser, admin.ID, domain.RoleUser)
	require.ErrorIs(t, err, service.ErrInsufficientRole)
	require.Equal(t, domain.RoleAdmin, f.reload(t, admin.ID).Role)

	require.ErrorIs(t, f.users.SetRole(ctx, asAdmin, target.ID, domain.Role(7)), service.ErrInvalidRole)
	require.ErrorIs(t, f.users.SetRole(ctx, asAdmin, "missing", domain.RoleAdmin), service.ErrUserNotFound)

	require.NoError(t, f.users.SetRole(ctx, asAdmin, target.ID, domain.RoleAdmin))
	require.Equal(t, domain.RoleAdmin, f.reload(t, target.ID).Role)
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "jdoe@menloschool.org", "pw", domain.RoleUser)

	got, err := f.users.Promote(ctx, "jdoe@menloschool.org", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Equal(t, domain.RoleAdmin, f.reload(t, u.ID).Role)

	_, err = f.users.Promote(ctx, "nobody@menloschool.org", domain.RoleAdmin)
	require.ErrorIs(t, err, service.ErrUnknownEmail)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "jdoe@menloschool.org", "pw", domain.RoleUser)

	require.NoError(t, f.users.UpdateProfile(ctx, u.ID, service.ProfileUpdate{
		FirstName: "Janet", LastName: "Doe", Grade: 11,
		Tutor: []string{"ap_bio", "physics"},
	}))
	require.NoError(t, f.users.UpdateProfile(ctx, u.ID, service.ProfileUpdate{
		FirstName: " Janet ", LastName: "Dough", Grade: 12,
		Tutor: []string{"ap_cs"}, Learn: []string{"ap_stats"},
	}))

	p, err := f.users.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Janet Dough", p.User.FullName())
	require.Equal(t, 12, p.User.Grade)
	require.Len(t, p.Tutoring, 1)
	require.Equal(t, "ap_cs", p.Tutoring[0].Name)
	require.True(t, p.Tutors(p.Tutoring[0].ID))
	require.Len(t, p.Learning, 1)
	require.True(t, p.Learns(p.Learning[0].ID))

	t.Run("validation", func(t *testing.T) {
		err := f.users.UpdateProfile(ctx, u.ID, service.ProfileUpdate{FirstName: "", LastName: "Doe", Grade: 10})
		require.ErrorIs(t, err, service.ErrNameRequired)

		err = f.users.UpdateProfile(ctx, u.ID, service.ProfileUpdate{FirstName: "J", LastName: "Doe", Grade: 0})
		require.ErrorIs(t, err, service.ErrInvalidGrade)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := f.users.UpdateProfile(ctx, "missing", service.ProfileUpdate{FirstName: "J", LastName: "D", Grade: 10})
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrUserNotFound)
	require.Equal(t, service.CodeNotFound, service.Code(err))

	_, err = f.users.Profile(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
