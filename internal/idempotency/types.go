package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// DefaultTTL is how long a key is remembered when no window is configured.
const DefaultTTL = 48 * time.Hour

// DefaultLease is how long an IN_PROGRESS claim blocks other attempts. An
// attempt that dies without finishing frees its key once the lease passes.
const DefaultLease = 2 * time.Minute

// Record is the shape persisted in the idempotency DynamoDB table.
type Record struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK, "<scope>:<client key>"
	Status         string    `dynamodbav:"status"`
	Fingerprint    string    `dynamodbav:"fingerprint,omitempty"` // hash of the claiming request
	ClaimToken     string    `dynamodbav:"claim_token,omitempty"`
	ResponseBody   string    `dynamodbav:"response_body,omitempty"`
	ResponseStatus int       `dynamodbav:"response_status,omitempty"` // e.g., 201
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	LeaseUntil     int64     `dynamodbav:"lease_until,omitempty"` // epoch seconds
	ExpiresAt      int64     `dynamodbav:"expires_at"`            // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}

// Expired reports whether the record's TTL has passed at now.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}

// Abandoned reports whether an IN_PROGRESS record outlived its lease.
func (r Record) Abandoned(now time.Time) bool {
	return r.Status == StatusInProgress && r.LeaseUntil > 0 && now.Unix() >= r.LeaseUntil
}

// Claim is one attempt at a keyed operation.
type Claim struct {
	Key         string
	Fingerprint string // empty disables the reuse check
	Token       string
}

// NewClaim returns a claim on key with a fresh attempt token.
func NewClaim(key, fingerprint string) Claim {
	return Claim{Key: key, Fingerprint: fingerprint, Token: uuid.NewString()}
}

// Fingerprint hashes the parts that identify a request.
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Store remembers the outcome of write requests keyed by client-supplied keys.
type Store interface {
	// CreateIfNotExists records c as IN_PROGRESS. It returns false without
	// error when a live record holds the key. Expired records and abandoned
	// IN_PROGRESS records are taken over.
	CreateIfNotExists(ctx context.Context, c Claim) (bool, error)
	// Get returns the live record for key, or nil when there is none.
	Get(ctx context.Context, key string) (*Record, error)
	MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
	// Release ends an IN_PROGRESS claim early so the next attempt takes it over.
	Release(ctx context.Context, key string) error
}

// Committer is implemented by stores that can mark a claim DONE inside the
// same DynamoDB transaction that writes the created resource.
type Committer interface {
	DoneWrite(c Claim, responseBody string, responseStatus int) types.TransactWriteItem
}
