package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminRecord    = `{"name":"Root","role":"super-admin","department":"Management","jobRole":"super_admin"}`
	employeeRecord = `{"name":"Ann","role":"employee","company":"ACME","companyCode":"AC"}`
)

func newTiers() (*MemoryTier, *MemoryTier, *Resolver) {
	long := NewMemoryTier("local")
	short := NewMemoryTier("session")
	return long, short, NewResolver(nil, long, short)
}

func TestResolve_Absent(t *testing.T) {
	_, _, r := newTiers()

	id, err := r.Resolve(context.Background())
	assert.Nil(t, id)
	assert.ErrorIs(t, err, ErrSessionAbsent)
	assert.True(t, IsReloginRequired(err))
}

func TestResolve_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		long     map[string]string
		short    map[string]string
		wantName string
	}{
		{
			name:     "primary key of long-lived tier wins",
			long:     map[string]string{KeySuperAdmin: adminRecord, KeyUser: employeeRecord},
			short:    map[string]string{KeySuperAdmin: `{"name":"Other","role":"admin"}`},
			wantName: "Root",
		},
		{
			name:     "fallback key of long-lived tier before session tier",
			long:     map[string]string{KeyUser: employeeRecord},
			short:    map[string]string{KeySuperAdmin: adminRecord},
			wantName: "Ann",
		},
		{
			name:     "session tier used when long-lived is empty",
			short:    map[string]string{KeyUser: employeeRecord},
			wantName: "Ann",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			long, short, r := newTiers()
			for k, v := range tt.long {
				long.Set(k, v)
			}
			for k, v := range tt.short {
				short.Set(k, v)
			}

			id, err := r.Resolve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, id.Name)
		})
	}
}

func TestResolve_DecodeFailureFallsThrough(t *testing.T) {
	long, short, r := newTiers()
	long.Set(KeySuperAdmin, "{not json")
	short.Set(KeyUser, employeeRecord)

	id, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACME", id.Company)
}

func TestResolve_DecodeFailureReportedWhenNothingParses(t *testing.T) {
	long, short, r := newTiers()
	long.Set(KeySuperAdmin, "{not json")
	short.Set(KeyUser, `{"name":"NoRole"}`)

	id, err := r.Resolve(context.Background())
	assert.Nil(t, id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionDecode)
	assert.NotErrorIs(t, err, ErrSessionAbsent)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "local", de.Tier)
	assert.Equal(t, KeySuperAdmin, de.Key)
}

func TestResolve_UnavailableTierIsSkipped(t *testing.T) {
	long, short, r := newTiers()
	long.Fail(errors.New("connection refused"))
	short.Set(KeyUser, employeeRecord)

	id, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
}

func TestResolve_ReflectsStorageChanges(t *testing.T) {
	long, _, r := newTiers()
	long.Set(KeyUser, employeeRecord)

	first, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "employee", first.Role)

	long.Set(KeyUser, adminRecord)
	second, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "super-admin", second.Role)
	assert.Equal(t, "employee", first.Role, "earlier identity must not be mutated")

	long.Delete(KeyUser)
	_, err = r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrSessionAbsent)
}

func TestResolve_RedisAndCookieTiers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	redisTier := NewRedisTier(client)
	cookieTier := NewCookieTier("test-secret")
	r := NewResolver(nil, redisTier, cookieTier)

	ctx := WithSessionID(context.Background(), "sid-1")

	// Nothing stored anywhere.
	_, err := r.Resolve(ctx)
	assert.ErrorIs(t, err, ErrSessionAbsent)

	// Session-scoped cookie only.
	token, err := cookieTier.Encode(&Identity{Name: "Ann", Role: "employee", Company: "ACME"}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: KeyUser, Value: token})
	ctx = WithRequest(ctx, req)

	id, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACME", id.Company)

	// Long-lived record takes precedence.
	require.NoError(t, redisTier.Put(ctx, "sid-1", KeyUser, adminRecord, time.Hour))
	id, err = r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Root", id.Name)

	// Records of another browser session are invisible.
	other := WithSessionID(context.Background(), "sid-2")
	_, err = r.Resolve(other)
	assert.ErrorIs(t, err, ErrSessionAbsent)

	require.NoError(t, redisTier.Clear(ctx, "sid-1"))
	id, err = r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
}
