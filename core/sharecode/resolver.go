package sharecode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core"
)

const fallbackPrefix = "TEMP-"

var (
	// errors
	ErrUnresolved = errors.New("share code unresolved")

	NewCode = newCode // mockable
)

type (
	// Issuer is the collaborator that issues and looks up share codes, in bulk.
	Issuer interface {
		// CreateIfMissing issues a code for every id that does not have one yet.
		CreateIfMissing(ctx context.Context, ids []int) error
		// Fetch returns the codes known for `ids`. Unknown ids are absent from the map.
		Fetch(ctx context.Context, ids []int) (map[int]string, error)
	}

	// Ref is a correction id with its pre-attached code, if any.
	Ref struct {
		ID   int
		Code string
	}

	Outcome int

	// Result is the outcome of one Resolve call.
	Result struct {
		Codes     map[int]string // every requested id, fallbacks included
		Outcome   Outcome
		Errors    []error
		Fallbacks []int // ids that received a fallback code
		Created   int   // ids sent to CreateIfMissing
		Calls     int   // collaborator round trips
	}

	Resolver struct {
		issuer  Issuer
		logger  core.Logger
		timeout time.Duration
	}
)

const (
	Success Outcome = iota
	Partial
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Partial:
		return "partial"
	case Failure:
		return "failure"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func newCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// Fallback returns the placeholder code of `id`.
func Fallback(id int) string { return fmt.Sprintf("%s%d", fallbackPrefix, id) }

func IsFallback(code string) bool { return strings.HasPrefix(code, fallbackPrefix) }

// Code returns the code of `id`, or its fallback.
func (res Result) Code(id int) string {
	if code, ok := res.Codes[id]; ok && code != "" {
		return code
	}
	return Fallback(id)
}

// Err joins the collected errors, if any.
func (res Result) Err() error {
	if len(res.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors))
	for _, err := range res.Errors {
		msgs = append(msgs, err.Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// NewResolver returns a Resolver; a zero timeout disables the per-call deadline.
func NewResolver(issuer Issuer, logger core.Logger, timeout time.Duration) *Resolver {
	return &Resolver{issuer: issuer, logger: logger, timeout: timeout}
}

func (r *Resolver) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// Resolve makes sure every ref has a code, in at most two Issuer calls:
// one CreateIfMissing for the refs without a code (or with a fallback one),
// then one Fetch for all of them.
// Ids left without a code get a Fallback. Resolve never retries.
func (r *Resolver) Resolve(ctx context.Context, refs []Ref) Result {
	res := Result{Codes: make(map[int]string, len(refs))}
	if len(refs) == 0 {
		return res
	}

	ids := make([]int, 0, len(refs))
	missing := make([]int, 0, len(refs))
	attached := make(map[int]string)
	seen := make(map[int]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		ids = append(ids, ref.ID)

		if code := core.CleanString(ref.Code); code != "" && !IsFallback(code) {
			attached[ref.ID] = code
		} else {
			missing = append(missing, ref.ID)
		}
	}

	if len(missing) > 0 {
		res.Created = len(missing)
		res.Calls++
		cctx, cancel := r.callCtx(ctx)
		err := r.issuer.CreateIfMissing(cctx, missing)
		cancel()
		if err != nil {
			err = errors.Wrapf(err, "creating %d share codes", len(missing))
			r.logger.Error(fmt.Sprintf("sharecode.Resolve: %v", err), err)
			res.Errors = append(res.Errors, err)
		}
	}

	res.Calls++
	cctx, cancel := r.callCtx(ctx)
	fetched, err := r.issuer.Fetch(cctx, ids)
	cancel()
	if err != nil {
		err = errors.Wrapf(err, "fetching %d share codes", len(ids))
		r.logger.Error(fmt.Sprintf("sharecode.Resolve: %v", err), err)
		res.Errors = append(res.Errors, err)
	}

	// fetched codes win over the caller's
	for _, id := range ids {
		if code := fetched[id]; code != "" {
			res.Codes[id] = code
		} else if code, ok := attached[id]; ok {
			res.Codes[id] = code
		} else {
			res.Codes[id] = Fallback(id)
			res.Fallbacks = append(res.Fallbacks, id)
		}
	}

	switch {
	case len(res.Fallbacks) == len(ids):
		res.Outcome = Failure
	case len(res.Fallbacks) > 0 || len(res.Errors) > 0:
		res.Outcome = Partial
	default:
		res.Outcome = Success
	}
	if len(res.Fallbacks) > 0 {
		r.logger.Warn(fmt.Sprintf("sharecode.Resolve: %d of %d codes unresolved, using fallbacks", len(res.Fallbacks), len(ids)), ErrUnresolved)
	}
	return res
}

// Refs pairs every id with its code in `codes`, if any. Fallback codes are dropped.
func Refs(ids []int, codes map[int]string) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		code := codes[id]
		if IsFallback(code) {
			code = ""
		}
		refs = append(refs, Ref{ID: id, Code: code})
	}
	return refs
}
