// Package seed writes sample session records for local runs.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/types"
	"github.com/sirupsen/logrus"
)

// SessionWriter stores a raw identity record for a browser session.
type SessionWriter interface {
	Put(ctx context.Context, sid, key, value string, ttl time.Duration) error
}

// Sessions is a seeded browser session.
type Sessions struct {
	Admin      string
	SuperAdmin string
}

// SeedSessions writes a company admin under sid and a super-admin under sid+"-root".
// Point the sid cookie at either value to sign in as that actor.
func SeedSessions(ctx context.Context, store SessionWriter, sid string, logger *logrus.Entry) (*Sessions, error) {
	admin := &session.Identity{
		UserID:      "seed-admin",
		Name:        "Bipin Dhimal",
		Role:        types.RoleAdmin,
		Department:  "Engineering",
		Company:     "ORA Technologies",
		CompanyCode: "ORA",
	}
	root := &session.Identity{
		UserID:      "seed-root",
		Name:        "Marga Ghale",
		Role:        types.RoleSuperAdmin,
		Department:  types.DepartmentManagement,
		JobRole:     types.JobRoleSuperAdmin,
		Company:     "ORA Technologies",
		CompanyCode: "ORA",
	}

	out := &Sessions{Admin: sid, SuperAdmin: sid + "-root"}
	if err := put(ctx, store, out.Admin, session.KeyUser, admin); err != nil {
		return nil, err
	}
	if err := put(ctx, store, out.SuperAdmin, session.KeySuperAdmin, root); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"admin_sid":      out.Admin,
		"superadmin_sid": out.SuperAdmin,
	}).Info("[Seed] Session records written")
	return out, nil
}

func put(ctx context.Context, store SessionWriter, sid, key string, id *session.Identity) error {
	raw, err := id.Encode()
	if err != nil {
		return err
	}
	if err := store.Put(ctx, sid, key, raw, 0); err != nil {
		return fmt.Errorf("failed to seed %s for %s: %w", key, sid, err)
	}
	return nil
}
