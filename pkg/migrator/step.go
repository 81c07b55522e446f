package migrator

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Step is a named, versioned, reversible schema transformation.
type Step struct {
	// Version orders the step. It is an opaque token, conventionally the
	// authoring timestamp (20240108093000).
	Version string
	Name    string
	Up      []Op
	Down    []Op
}

// String returns "<version> <name>".
func (s Step) String() string {
	return s.Version + " " + s.Name
}

// Ops returns the ops for the given direction.
func (s Step) Ops(d Direction) []Op {
	if d == DirectionDown {
		return s.Down
	}
	return s.Up
}

// Transactional reports whether every op in direction d can run inside one
// transaction.
func (s Step) Transactional(d Direction) bool {
	for _, op := range s.Ops(d) {
		if !op.Transactional() {
			return false
		}
	}
	return true
}

// Checksum returns a SHA256 hash of the rendered forward ops.
// It is stored in the log and compared to detect edited steps.
func (s Step) Checksum() string {
	return ComputeChecksum(renderOps(s.Up))
}

// ComputeChecksum returns a SHA256 hash of content.
func ComputeChecksum(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}

func renderOps(ops []Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ";\n")
}

// AppliedStep is a row of the migration log.
type AppliedStep struct {
	Version   string
	Name      string
	Checksum  string
	AppliedAt time.Time
}
