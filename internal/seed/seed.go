// Package seed turns a user-supplied seed token into the integer seed that
// drives every pseudo-random draw of a generation run.
//
// Tokens are interpreted in a fixed order: absent (random), then base-16
// literal, then hashed string. Decimal is never tried; "123" is hex 0x123.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/roach88/procgen/internal/ginconf"
)

// ConstantName is the store constant the resolved seed is published under.
const ConstantName = "OVERALL_SEED"

// randomLimit bounds seeds chosen when no token is given.
const randomLimit = 10_000_000

// Provenance records how a seed value was obtained.
type Provenance int

const (
	// RandomlyChosen means no token was given and the seed was drawn at random.
	RandomlyChosen Provenance = iota
	// ParsedHex means the token was a base-16 literal.
	ParsedHex
	// HashedString means the token was hashed.
	HashedString
)

// String returns the log phrase for p.
func (p Provenance) String() string {
	switch p {
	case RandomlyChosen:
		return "chosen at random"
	case ParsedHex:
		return "parsed as hexadecimal"
	case HashedString:
		return "hashed string to integer"
	}
	return fmt.Sprintf("Provenance(%d)", int(p))
}

// Result is a resolved seed.
type Result struct {
	// Raw is the token as given; nil when absent.
	Raw        *string
	Value      uint64
	Provenance Provenance
}

// Resolver resolves seed tokens.
type Resolver struct {
	// Random draws the seed when no token is given. It must return a value
	// in [0, n). nil uses an unseeded generator.
	Random func(n uint64) uint64

	// Logger receives the resolution record; nil means slog.Default().
	Logger *slog.Logger
}

// Resolve interprets raw. A nil raw is only allowed for fresh generation:
// resuming work on an existing scene without its seed would not be
// view-consistent, so that case is a SeedRequiredError.
func (r *Resolver) Resolve(raw *string, fresh bool) (Result, error) {
	if raw == nil {
		if !fresh {
			return Result{}, &SeedRequiredError{}
		}
		draw := r.Random
		if draw == nil {
			draw = rand.Uint64N
		}
		return Result{Value: draw(randomLimit), Provenance: RandomlyChosen}, nil
	}

	token := *raw
	if v, ok := ParseHex(token); ok {
		return Result{Raw: raw, Value: v, Provenance: ParsedHex}, nil
	}
	return Result{Raw: raw, Value: HashString(token), Provenance: HashedString}, nil
}

// Apply resolves raw, seeds gens and publishes the value into store as
// %OVERALL_SEED so configuration can refer to it.
func (r *Resolver) Apply(raw *string, fresh bool, store *ginconf.Store, gens *Generators) (Result, error) {
	res, err := r.Resolve(raw, fresh)
	if err != nil {
		return Result{}, err
	}
	if err := gens.Seed(res.Value); err != nil {
		return Result{}, err
	}
	if err := store.SetConstant(ConstantName, res.Value); err != nil {
		return Result{}, fmt.Errorf("publish seed: %w", err)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rawAttr := "<none>"
	if raw != nil {
		rawAttr = *raw
	}
	logger.Info("converted seed", "raw", rawAttr, "seed", res.Value, "reason", res.Provenance.String())
	return res, nil
}

// ParseHex parses a base-16 integer literal: optional surrounding
// whitespace, an optional sign, optional 0x/0X prefix, and single
// underscores between digits. Negative values other than zero and values
// wider than 64 bits are not accepted.
func ParseHex(token string) (uint64, bool) {
	s := strings.TrimSpace(token)
	negative := strings.HasPrefix(s, "-")
	if negative || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		// 0x_ff is valid, an underscore may follow the prefix.
		s = strings.TrimPrefix(s, "_")
	}
	if s == "" {
		return 0, false
	}

	var v uint64
	prevUnderscore := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if prevUnderscore {
				return 0, false
			}
			prevUnderscore = true
			continue
		}
		d, ok := hexDigit(c)
		if !ok {
			return 0, false
		}
		if v>>60 != 0 {
			return 0, false
		}
		v = v<<4 | uint64(d)
		prevUnderscore = false
	}
	if prevUnderscore || (negative && v != 0) {
		return 0, false
	}
	return v, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
