package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/ledger"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
	"github.com/twp-acessorios/garimpo-cli/internal/resilience"
	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// Result describes how one product's reconcile ended.
type Result struct {
	ExternalID string
	RemoteID   int64
	Outcome    model.Outcome // applied or skipped
	Changed    []string
}

// Reconciler drives remote products toward their desired state. Already
// processed ids are skipped via the ledger unless Force is set; an id enters
// the ledger only after every call for its product succeeded.
type Reconciler struct {
	api    shopify.Client
	ledger ledger.Ledger
	policy resilience.Policy
	force  bool
}

// NewReconciler wires the reconciler with the batch retry budget.
func NewReconciler(api shopify.Client, led ledger.Ledger, batch config.BatchConfig) *Reconciler {
	policy := resilience.DefaultPolicy()
	if batch.MaxAttempts > 0 {
		policy.MaxAttempts = batch.MaxAttempts
	}
	if batch.RetryBackoffMs > 0 {
		policy.ThrottleDelay = time.Duration(batch.RetryBackoffMs) * time.Millisecond
	}
	policy.Classify = classifyRemote
	policy.OnRetry = resilience.RetryLogger("shopify", "reconcile")

	return &Reconciler{
		api:    api,
		ledger: led,
		policy: policy,
		force:  batch.Force,
	}
}

// classifyRemote maps storefront client errors onto retry actions. Throttling
// waits the server-dictated (or configured) flat delay; 5xx and network
// faults back off; everything else is permanent.
func classifyRemote(err error) (resilience.Action, time.Duration) {
	var rl *shopify.RateLimitError
	if errors.As(err, &rl) {
		return resilience.FixedDelay, rl.RetryAfter
	}
	var api *shopify.APIError
	if errors.As(err, &api) {
		if resilience.IsTransientHTTPStatus(api.StatusCode) {
			return resilience.Backoff, 0
		}
		return resilience.Stop, 0
	}
	if resilience.IsTransient(err) {
		return resilience.Backoff, 0
	}
	return resilience.Stop, 0
}

// Reconcile applies the desired state for one supplier product. Apply order
// is product fields, then variants, then the image set; the order bounds the
// damage of a mid-flight failure to the coarser fields.
func (r *Reconciler) Reconcile(ctx context.Context, externalID string, desired model.CatalogProductState) (*Result, error) {
	if !r.force {
		done, err := r.ledger.Contains(ctx, externalID)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: ledger lookup %s", externalID)
		}
		if done {
			zap.L().Debug("already processed, skipping",
				zap.String("external_id", externalID))
			return &Result{ExternalID: externalID, Outcome: model.OutcomeSkipped}, nil
		}
	}

	if desired.RemoteID == 0 {
		return nil, &ReconcileError{Kind: KindNotFound,
			Err: eris.Errorf("no remote product for %s", externalID)}
	}

	mutated := false
	fail := func(err error) (*Result, error) {
		return nil, r.classifyFailure(err, mutated)
	}

	remote, err := resilience.DoVal(ctx, r.policy, func(ctx context.Context) (*shopify.Product, error) {
		return r.api.GetProduct(ctx, desired.RemoteID)
	})
	if err != nil {
		return fail(err)
	}

	var changed []string

	if upd, fields := productDiff(remote, desired); len(fields) > 0 {
		_, err := resilience.DoVal(ctx, r.policy, func(ctx context.Context) (*shopify.Product, error) {
			return r.api.UpdateProduct(ctx, upd)
		})
		if err != nil {
			return fail(err)
		}
		mutated = true
		changed = append(changed, fields...)
	}

	if len(desired.Variants) > 0 {
		want := desired.Variants[0]
		price := fmt.Sprintf("%.2f", want.Price)
		compareAt := fmt.Sprintf("%.2f", want.CompareAt)

		for _, v := range remote.Variants {
			upd, dirty := variantDiff(v, want, price, compareAt)
			if !dirty {
				continue
			}
			_, err := resilience.DoVal(ctx, r.policy, func(ctx context.Context) (*shopify.Variant, error) {
				return r.api.UpdateVariant(ctx, upd)
			})
			if err != nil {
				return fail(err)
			}
			mutated = true
			changed = append(changed, fmt.Sprintf("variant:%d", v.ID))
		}
	}

	if len(desired.Images) > 0 {
		imgMutated, err := r.replaceImages(ctx, desired.RemoteID, desired.Images)
		mutated = mutated || imgMutated
		if err != nil {
			return fail(err)
		}
		changed = append(changed, "images")
	}

	// The product is fully applied at this point; a ledger failure is a local
	// storage problem, not a payload one, and gets its own kind.
	if err := r.ledger.Add(ctx, externalID); err != nil {
		return nil, &ReconcileError{Kind: KindLedgerWrite,
			Err: eris.Wrapf(err, "catalog: ledger add %s", externalID)}
	}

	zap.L().Info("product reconciled",
		zap.String("external_id", externalID),
		zap.Int64("remote_id", desired.RemoteID),
		zap.Strings("changed", changed),
	)

	return &Result{
		ExternalID: externalID,
		RemoteID:   desired.RemoteID,
		Outcome:    model.OutcomeApplied,
		Changed:    changed,
	}, nil
}

// replaceImages swaps the whole remote image set: delete everything, then
// upload the desired payloads with explicit 1-based positions. The returned
// flag reports whether any remote image was touched before a failure.
func (r *Reconciler) replaceImages(ctx context.Context, productID int64, images [][]byte) (bool, error) {
	existing, err := resilience.DoVal(ctx, r.policy, func(ctx context.Context) ([]shopify.Image, error) {
		return r.api.ListImages(ctx, productID)
	})
	if err != nil {
		return false, err
	}

	mutated := false
	for _, img := range existing {
		err := resilience.Do(ctx, r.policy, func(ctx context.Context) error {
			return r.api.DeleteImage(ctx, productID, img.ID)
		})
		if err != nil {
			return mutated, err
		}
		mutated = true
	}

	for i, payload := range images {
		upload := shopify.ImageUpload{
			Attachment: base64.StdEncoding.EncodeToString(payload),
			Position:   i + 1,
		}
		_, err := resilience.DoVal(ctx, r.policy, func(ctx context.Context) (*shopify.Image, error) {
			return r.api.CreateImage(ctx, productID, upload)
		})
		if err != nil {
			return true, err
		}
		mutated = true
	}

	return mutated, nil
}

func (r *Reconciler) classifyFailure(err error, mutated bool) error {
	var kind ErrorKind
	var rl *shopify.RateLimitError
	var api *shopify.APIError

	switch {
	case errors.As(err, &rl):
		kind = KindRateLimitExceeded
	case errors.As(err, &api) && api.StatusCode == http.StatusNotFound:
		kind = KindNotFound
	case resilience.IsTransient(err) ||
		(errors.As(err, &api) && resilience.IsTransientHTTPStatus(api.StatusCode)):
		kind = KindTransientNetwork
	case mutated:
		kind = KindPartialUpdate
	default:
		kind = KindInvalidInput
	}

	// A transient fault after mutations still leaves mixed state.
	if mutated && (kind == KindTransientNetwork) {
		kind = KindPartialUpdate
	}

	return &ReconcileError{Kind: kind, Err: err}
}

// tagsString renders a tag set in the API's comma-separated form.
func tagsString(tags []string) string {
	return strings.Join(tags, ", ")
}

// productDiff computes a minimal product-level update. Field names of
// changed attributes are returned for the audit trail.
func productDiff(remote *shopify.Product, desired model.CatalogProductState) (shopify.ProductUpdate, []string) {
	upd := shopify.ProductUpdate{ID: remote.ID}
	var fields []string

	if remote.Title != desired.Title {
		upd.Title = &desired.Title
		fields = append(fields, "title")
	}
	if remote.BodyHTML != desired.BodyHTML {
		upd.BodyHTML = &desired.BodyHTML
		fields = append(fields, "body_html")
	}
	if desired.Vendor != "" && remote.Vendor != desired.Vendor {
		upd.Vendor = &desired.Vendor
		fields = append(fields, "vendor")
	}
	if desired.ProductType != "" && remote.ProductType != desired.ProductType {
		upd.ProductType = &desired.ProductType
		fields = append(fields, "product_type")
	}
	if want := tagsString(desired.Tags); !sameTagSet(remote.Tags, desired.Tags) {
		upd.Tags = &want
		fields = append(fields, "tags")
	}
	status := "active"
	if !desired.Published {
		status = "draft"
	}
	// An empty remote status means the field was not returned; leave it alone.
	if remote.Status != "" && remote.Status != status {
		upd.Status = &status
		fields = append(fields, "status")
	}

	return upd, fields
}

// variantDiff computes a minimal per-variant update. Prices move as a pair;
// option values differ independently, falling back to translation of the
// remote value when the desired state does not pin them.
func variantDiff(v shopify.Variant, want model.VariantState, price, compareAt string) (shopify.VariantUpdate, bool) {
	upd := shopify.VariantUpdate{ID: v.ID}
	dirty := false

	if v.Price != price || v.CompareAtPrice != compareAt {
		upd.Price, upd.CompareAtPrice = &price, &compareAt
		dirty = true
	}

	slots := []**string{&upd.Option1, &upd.Option2, &upd.Option3}
	for i, remoteVal := range []string{v.Option1, v.Option2, v.Option3} {
		wantVal := desiredOptionValue(want.Options, i, remoteVal)
		if wantVal == remoteVal {
			continue
		}
		val := wantVal
		*slots[i] = &val
		dirty = true
	}

	return upd, dirty
}

func sameTagSet(remoteTags string, desired []string) bool {
	remote := map[string]bool{}
	n := 0
	for _, t := range strings.Split(remoteTags, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		remote[t] = true
		n++
	}
	if n != len(desired) {
		return false
	}
	for _, t := range desired {
		if !remote[t] {
			return false
		}
	}
	return true
}
