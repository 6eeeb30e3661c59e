package session

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Storage keys written by the login flow, primary first.
const (
	KeySuperAdmin = "superAdmin"
	KeyUser       = "user"
)

// Tier is one persistence location for string-encoded identity records.
type Tier interface {
	Name() string
	// Get returns found=false when nothing is stored under key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// Decoder lets a tier own the decoding of its values (e.g. signed tokens).
type Decoder interface {
	Decode(raw string) (*Identity, error)
}

// Candidate is a (tier, key) pair checked by the resolver.
type Candidate struct {
	Tier Tier
	Key  string
}

// Resolver derives the current identity from session storage, leaves first.
// It holds no state between calls.
type Resolver struct {
	candidates []Candidate
	logger     *logrus.Entry
}

// NewResolver checks every key in the first tier, then every key in the next, and so on.
func NewResolver(logger *logrus.Entry, tiers ...Tier) *Resolver {
	candidates := make([]Candidate, 0, len(tiers)*2)
	for _, t := range tiers {
		candidates = append(candidates,
			Candidate{Tier: t, Key: KeySuperAdmin},
			Candidate{Tier: t, Key: KeyUser},
		)
	}
	return NewResolverWithCandidates(logger, candidates...)
}

func NewResolverWithCandidates(logger *logrus.Entry, candidates ...Candidate) *Resolver {
	if logger == nil {
		logger = logrus.WithField("component", "session")
	}
	return &Resolver{candidates: candidates, logger: logger}
}

// Resolve returns the first candidate that parses into an identity.
// When none does, it returns ErrSessionAbsent, or the first DecodeError seen.
func (r *Resolver) Resolve(ctx context.Context) (*Identity, error) {
	var firstDecodeErr *DecodeError

	for _, c := range r.candidates {
		raw, found, err := c.Tier.Get(ctx, c.Key)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"tier": c.Tier.Name(),
				"key":  c.Key,
			}).Warn("[Session] tier unavailable, skipping")
			continue
		}
		if !found || raw == "" {
			continue
		}

		id, err := decode(c.Tier, raw)
		if err != nil {
			de := &DecodeError{Tier: c.Tier.Name(), Key: c.Key, Err: err}
			r.logger.WithError(err).WithFields(logrus.Fields{
				"tier": c.Tier.Name(),
				"key":  c.Key,
			}).Warn("[Session] stored identity could not be decoded")
			if firstDecodeErr == nil {
				firstDecodeErr = de
			}
			continue
		}
		return id, nil
	}

	if firstDecodeErr != nil {
		return nil, firstDecodeErr
	}
	return nil, ErrSessionAbsent
}

func decode(t Tier, raw string) (*Identity, error) {
	if d, ok := t.(Decoder); ok {
		return d.Decode(raw)
	}
	return ParseIdentity(raw)
}

// IsReloginRequired reports whether err should prompt the user to sign in again.
func IsReloginRequired(err error) bool {
	return errors.Is(err, ErrSessionAbsent) || errors.Is(err, ErrSessionDecode)
}
