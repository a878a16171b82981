package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
)

// Kind tags a backend failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindConnectivity
	KindNotFound
	KindSchemaMismatch
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConnectivity:
		return "connectivity"
	case KindNotFound:
		return "not_found"
	case KindSchemaMismatch:
		return "schema_mismatch"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	// Key is the environment variable at fault.
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// Error is a classified backend failure.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details string
	Hint    string
	// Status is the HTTP status, zero for non-HTTP transports.
	Status int
	// Column names the offending column for KindSchemaMismatch, when it can be recovered.
	Column string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// codeKinds maps backend error codes to kinds. Codes come from Postgres
// (SQLSTATE), PostgREST (PGRST*), GoTrue (error_code), MySQL (error number)
// and S3 (error code).
var codeKinds = map[string]Kind{
	// Postgres
	"42P01": KindNotFound,       // undefined_table
	"3F000": KindNotFound,       // invalid_schema_name
	"3D000": KindNotFound,       // invalid_catalog_name
	"42703": KindSchemaMismatch, // undefined_column
	"42501": KindPermission,     // insufficient_privilege
	"28000": KindPermission,     // invalid_authorization_specification
	"28P01": KindPermission,     // invalid_password

	// PostgREST
	"PGRST205": KindNotFound,
	"PGRST204": KindSchemaMismatch,
	"PGRST301": KindPermission,
	"PGRST302": KindPermission,
	"PGRST303": KindPermission,

	// GoTrue
	"bad_jwt":           KindPermission,
	"no_authorization":  KindPermission,
	"not_admin":         KindPermission,
	"session_not_found": KindPermission,
	"user_not_found":    KindNotFound,

	// MySQL
	"1146": KindNotFound, // ER_NO_SUCH_TABLE
	"1049": KindNotFound, // ER_BAD_DB_ERROR
	"1054": KindSchemaMismatch,
	"1142": KindPermission,
	"1143": KindPermission,
	"1044": KindPermission,
	"1045": KindPermission,

	// S3
	"NoSuchBucket":          KindNotFound,
	"AccessDenied":          KindPermission,
	"InvalidAccessKeyId":    KindPermission,
	"SignatureDoesNotMatch": KindPermission,
}

// messageKinds is consulted when the code alone is not conclusive.
var messageKinds = []struct {
	re   *regexp.Regexp
	kind Kind
}{
	{regexp.MustCompile(`(?i)column .*does not exist|no such column|has no column named|unknown column|could not find the '.*' column`), KindSchemaMismatch},
	{regexp.MustCompile(`(?i)relation .*does not exist|no such table|could not find the table|table '.*' doesn't exist`), KindNotFound},
	{regexp.MustCompile(`(?i)permission denied|row-level security|insufficient privilege|access denied`), KindPermission},
}

var columnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)column "?([\w.]+)"? does not exist`),
	regexp.MustCompile(`(?i)column does not exist:\s*"?([\w.]+)"?`),
	regexp.MustCompile(`(?i)could not find the '([\w]+)' column`),
	regexp.MustCompile(`(?i)unknown column '([\w.]+)'`),
	regexp.MustCompile(`(?i)no such column:\s*([\w.]+)`),
	regexp.MustCompile(`(?i)has no column named\s+([\w]+)`),
}

// Classify folds err into an *Error with its Kind resolved. It returns nil for
// a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var out *Error

	var cfgErr *ConfigError
	var be *Error
	var pgErr *pgconn.PgError
	var myErr *mysql.MySQLError
	var s3Err minio.ErrorResponse

	switch {
	case errors.As(err, &cfgErr):
		return &Error{Kind: KindConfig, Message: cfgErr.Error(), Err: err}
	case errors.As(err, &be):
		cp := *be
		out = &cp
	case errors.As(err, &pgErr):
		out = &Error{Code: pgErr.Code, Message: pgErr.Message, Details: pgErr.Detail, Hint: pgErr.Hint, Column: pgErr.ColumnName, Err: err}
	case errors.As(err, &myErr):
		out = &Error{Code: strconv.Itoa(int(myErr.Number)), Message: myErr.Message, Err: err}
	case errors.As(err, &s3Err) && s3Err.Code != "":
		out = &Error{Code: s3Err.Code, Message: s3Err.Message, Status: s3Err.StatusCode, Err: err}
	default:
		out = &Error{Message: err.Error(), Err: err}
	}

	if out.Kind == KindUnknown {
		out.Kind = kindOf(out, err)
	}
	if out.Kind == KindSchemaMismatch && out.Column == "" {
		out.Column = columnOf(out.Code + " " + out.Message + " " + out.Details)
	}
	return out
}

// KindOf is shorthand for Classify(err).Kind.
func KindOf(err error) Kind {
	if c := Classify(err); c != nil {
		return c.Kind
	}
	return KindUnknown
}

func kindOf(e *Error, cause error) Kind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}

	text := e.Code + " " + e.Message + " " + e.Details
	for _, m := range messageKinds {
		if m.re.MatchString(text) {
			return m.kind
		}
	}

	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindPermission
	case http.StatusNotFound:
		return KindNotFound
	}

	if isConnectivity(cause) {
		return KindConnectivity
	}
	return KindUnknown
}

func columnOf(text string) string {
	for _, re := range columnPatterns {
		if m := re.FindStringSubmatch(text); len(m) == 2 {
			col := m[1]
			if i := strings.LastIndex(col, "."); i >= 0 {
				col = col[i+1:]
			}
			return col
		}
	}
	return ""
}

// isConnectivity reports transport-level failures: timeouts, DNS, refused
// connections and TLS handshakes.
func isConnectivity(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	lower := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "no such host", "i/o timeout", "tls:", "certificate", "connection reset"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
