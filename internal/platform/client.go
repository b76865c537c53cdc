package platform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultIPFSURL = "https://pump.fun/api/ipfs"
	defaultAPIURL  = "https://pumpportal.fun/api"

	defaultTimeout = 30 * time.Second
)

// TokenMetadata describes the token being created on the platform.
type TokenMetadata struct {
	Name        string
	Symbol      string
	Description string
	Twitter     string
	Telegram    string
	Website     string

	// Image is the raw image bytes uploaded alongside the metadata.
	// Optional; some launches go out without artwork.
	Image     []byte
	ImageName string
}

// UploadResult carries the IPFS location assigned to the metadata.
type UploadResult struct {
	MetadataURI string `json:"metadataUri"`
	Metadata    struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
}

// CreateParams are the inputs for a token-create transaction.
type CreateParams struct {
	// FunderPublicKey pays for the create and the dev buy.
	FunderPublicKey string

	// MintPublicKey is the address of the freshly generated mint keypair.
	MintPublicKey string

	// MetadataURI is the IPFS URI from UploadMetadata.
	MetadataURI string

	Name   string
	Symbol string

	// DevBuySOL is the initial buy placed by the funder, in SOL.
	DevBuySOL float64

	// SlippagePercent bounds the dev-buy price movement.
	SlippagePercent float64

	// PriorityFeeSOL is the compute priority fee, in SOL.
	PriorityFeeSOL float64
}

// Client talks to the token launch platform over HTTPS. The platform
// builds the create transaction server-side; the caller signs and
// submits it to the chain itself.
type Client struct {
	ipfsURL string
	apiURL  string
	http    *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithIPFSURL overrides the metadata upload endpoint.
func WithIPFSURL(url string) Option {
	return func(c *Client) { c.ipfsURL = url }
}

// WithAPIURL overrides the transaction build endpoint.
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = url }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient creates a platform client with production endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		ipfsURL: defaultIPFSURL,
		apiURL:  defaultAPIURL,
		http:    resty.New().SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadMetadata pushes token metadata (and the image, when present) to
// the platform IPFS endpoint and returns the assigned metadata URI.
func (c *Client) UploadMetadata(ctx context.Context, meta *TokenMetadata) (*UploadResult, error) {
	req := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":        meta.Name,
			"symbol":      meta.Symbol,
			"description": meta.Description,
			"twitter":     meta.Twitter,
			"telegram":    meta.Telegram,
			"website":     meta.Website,
			"showName":    "true",
		})

	if len(meta.Image) > 0 {
		name := meta.ImageName
		if name == "" {
			name = "token.png"
		}
		req.SetFileReader("file", name, bytes.NewReader(meta.Image))
	}

	resp, err := req.Post(c.ipfsURL)
	if err != nil {
		return nil, fmt.Errorf("upload metadata: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("upload metadata: status %d: %s", resp.StatusCode(), truncate(resp.Body(), 200))
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.MetadataURI == "" {
		return nil, fmt.Errorf("upload metadata: response missing metadataUri")
	}
	return &result, nil
}

// CreateTransaction asks the platform to build an unsigned token-create
// transaction and returns it base64-encoded. Not retried here: the next
// qualifying trigger is the retry path.
func (c *Client) CreateTransaction(ctx context.Context, params *CreateParams) (string, error) {
	body := map[string]interface{}{
		"publicKey": params.FunderPublicKey,
		"action":    "create",
		"tokenMetadata": map[string]string{
			"name":   params.Name,
			"symbol": params.Symbol,
			"uri":    params.MetadataURI,
		},
		"mint":             params.MintPublicKey,
		"denominatedInSol": "true",
		"amount":           params.DevBuySOL,
		"slippage":         params.SlippagePercent,
		"priorityFee":      params.PriorityFeeSOL,
		"pool":             "pump",
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.apiURL + "/trade-local")
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("create transaction: status %d: %s", resp.StatusCode(), truncate(resp.Body(), 200))
	}

	raw := resp.Body()
	if len(raw) == 0 {
		return "", fmt.Errorf("create transaction: empty response")
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
