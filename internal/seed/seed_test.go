package seed

import (
	"context"
	"testing"

	"github.com/Marga-Ghale/ora-admin-console/internal/scope"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	tier := session.NewRedisTier(client)
	ctx := context.Background()

	seeded, err := SeedSessions(ctx, tier, "dev", logrus.NewEntry(logrus.New()))
	require.NoError(t, err)
	assert.Equal(t, "dev-root", seeded.SuperAdmin)

	resolver := session.NewResolver(nil, tier)

	admin, err := resolver.Resolve(session.WithSessionID(ctx, seeded.Admin))
	require.NoError(t, err)
	assert.False(t, scope.IsUnrestrictedActor(admin))
	assert.Equal(t, "ORA Technologies", admin.Company)

	root, err := resolver.Resolve(session.WithSessionID(ctx, seeded.SuperAdmin))
	require.NoError(t, err)
	assert.True(t, scope.IsUnrestrictedActor(root))
}
