package community

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

const (
	confTag  = "conf"
	allowTag = "allow"
)

// confEntryRe matches one pending confirmation entry: the opaque id plus
// the nonce needed to respond to it.
var confEntryRe = regexp.MustCompile(`data-confid="(\d+)"[^>]*data-key="(\d+)"`)

// ConfirmationEngine lists and accepts pending trade confirmations using
// time-synchronized signatures. Listing failures are retried through the
// backoff policy; individual accept failures are counted, not fatal.
type ConfirmationEngine struct {
	fetcher ports.PageFetcher
	signer  ports.Signer
	backoff *shared.BackoffPolicy
	clock   shared.Clock
	baseURL string
}

// NewConfirmationEngine creates an engine over the given fetcher and signer
func NewConfirmationEngine(fetcher ports.PageFetcher, signer ports.Signer, backoff *shared.BackoffPolicy, clock shared.Clock, baseURL string) *ConfirmationEngine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ConfirmationEngine{
		fetcher: fetcher,
		signer:  signer,
		backoff: backoff,
		clock:   clock,
		baseURL: baseURL,
	}
}

// ResolvePending lists the account's pending confirmations and accepts each
// one. Every accept recomputes its own signature: time may have advanced
// between listing and responding, and signatures are only valid for the
// timestamp they were computed over.
func (e *ConfirmationEngine) ResolvePending(ctx context.Context, account *farm.Account, session ports.Session) (farm.ConfirmationOutcome, error) {
	if !account.CanConfirm() {
		return farm.ConfirmationOutcome{}, shared.NewConfirmationsDisabledError(account.ID)
	}

	logger := common.LoggerFromContext(ctx)

	pending, err := e.listPending(ctx, account, session)
	if err != nil {
		return farm.ConfirmationOutcome{}, err
	}

	result := farm.ConfirmationOutcome{}
	for _, conf := range pending {
		if err := e.accept(ctx, account, session, conf); err != nil {
			logger.Warn("confirmation accept failed",
				zap.String("confirmation_id", conf.ID),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.Resolved++
	}

	logger.Info("confirmation pass finished",
		zap.Int("resolved", result.Resolved),
		zap.Int("failed", result.Failed))
	return result, nil
}

// listPending fetches the confirmation listing, retrying transport and
// status failures up to the shared attempt budget.
func (e *ConfirmationEngine) listPending(ctx context.Context, account *farm.Account, session ports.Session) ([]farm.Confirmation, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		listURL, err := e.signedURL(account, session, "conf", confTag, nil)
		if err != nil {
			return nil, fmt.Errorf("signing confirmation listing: %w", err)
		}

		doc, fetchErr := e.fetcher.FetchPage(ctx, listURL)
		if fetchErr == nil && doc.OK() {
			return parseConfirmations(doc.Body), nil
		}

		if fetchErr != nil {
			lastErr = fetchErr
		} else {
			lastErr = fmt.Errorf("unexpected status %d", doc.StatusCode)
		}

		next := attempt + 1
		if !e.backoff.ShouldRetry(next) {
			return nil, shared.NewListFailedError(next, lastErr)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		e.clock.Sleep(e.backoff.NextDelay(next))
	}
}

// accept responds "allow" to one confirmation with a freshly computed
// signature. A single attempt; failures are terminal for this pass.
func (e *ConfirmationEngine) accept(ctx context.Context, account *farm.Account, session ports.Session, conf farm.Confirmation) error {
	extra := url.Values{}
	extra.Set("op", allowTag)
	extra.Set("cid", conf.ID)
	extra.Set("ck", conf.Key)

	acceptURL, err := e.signedURL(account, session, "ajaxop", allowTag, extra)
	if err != nil {
		return fmt.Errorf("signing confirmation response: %w", err)
	}

	doc, err := e.fetcher.FetchPage(ctx, acceptURL)
	if err != nil {
		return err
	}
	if !doc.OK() {
		return fmt.Errorf("unexpected status %d", doc.StatusCode)
	}

	var response struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(doc.Body), &response); err != nil {
		return fmt.Errorf("malformed confirmation response: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("confirmation %s rejected by server", conf.ID)
	}
	return nil
}

// signedURL builds a mobileconf URL authenticated with a signature over the
// given tag at the server-synchronized current time.
func (e *ConfirmationEngine) signedURL(account *farm.Account, session ports.Session, endpoint, tag string, extra url.Values) (string, error) {
	now := session.ServerTime()
	sig, err := e.signer.Sign(account.Credentials.IdentitySecret, now, tag)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("p", deviceID(account.ID))
	params.Set("a", account.ID)
	params.Set("k", sig)
	params.Set("t", fmt.Sprintf("%d", now.Unix()))
	params.Set("m", "react")
	params.Set("tag", tag)
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}

	return fmt.Sprintf("%s/mobileconf/%s?%s", e.baseURL, endpoint, params.Encode()), nil
}

// parseConfirmations extracts the pending entries from the listing markup
func parseConfirmations(body string) []farm.Confirmation {
	matches := confEntryRe.FindAllStringSubmatch(body, -1)
	confs := make([]farm.Confirmation, 0, len(matches))
	for _, m := range matches {
		confs = append(confs, farm.Confirmation{ID: m[1], Key: m[2]})
	}
	return confs
}

// deviceID derives a stable device identifier from the account id. The
// confirmation service requires one; it only has to be consistent.
func deviceID(accountID string) string {
	return "android:" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(accountID)).String()
}
