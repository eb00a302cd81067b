package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/config"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Client talks to an S3-compatible object store using path-style addressing.
// Pre-signed URLs are issued locally with SigV4 query signing; delete and
// head are header-signed requests.
type Client struct {
	endpoint     string
	bucket       string
	region       string
	accessKey    string
	secretKey    string
	sessionToken string
	httpClient   *http.Client
	clock        func() time.Time
}

func New(endpoint, bucket, region, accessKey, secretKey, sessionToken string) *Client {
	return &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		bucket:       bucket,
		region:       region,
		accessKey:    accessKey,
		secretKey:    secretKey,
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		clock:        time.Now,
	}
}

func NewFromConfig(cfg config.Config) (*Client, error) {
	if cfg.S3Bucket == "" || cfg.AWSRegion == "" || cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" {
		return nil, errors.New("S3_BUCKET, AWS_REGION, AWS_ACCESS_KEY_ID, and AWS_SECRET_ACCESS_KEY are required")
	}
	endpoint := cfg.S3Endpoint
	if endpoint == "" {
		endpoint = "https://s3." + cfg.AWSRegion + ".amazonaws.com"
	}
	return New(endpoint, cfg.S3Bucket, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSSessionToken), nil
}

func (c *Client) WithClock(clock func() time.Time) *Client {
	if clock != nil {
		c.clock = clock
	}
	return c
}

func (c *Client) PresignUpload(_ context.Context, key, contentType string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return c.presign(http.MethodPut, key, contentType, expiresIn)
}

func (c *Client) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return c.presign(http.MethodGet, key, "", expiresIn)
}

func (c *Client) presign(method, key string, contentType string, expiresIn time.Duration) (domain.PresignedURL, error) {
	if err := c.checkConfig(); err != nil {
		return domain.PresignedURL{}, err
	}
	if key == "" {
		return domain.PresignedURL{}, errors.New("object key is required")
	}
	if expiresIn <= 0 {
		return domain.PresignedURL{}, errors.New("expiry must be positive")
	}
	now := c.clock().UTC()
	amzDate := now.Format("20060102T150405Z")
	date := amzDate[:8]
	scope := date + "/" + c.region + "/" + awsServiceS3 + "/aws4_request"

	signedHeaders := "host"
	if contentType != "" {
		signedHeaders = "content-type;host"
	}
	query := map[string]string{
		"X-Amz-Algorithm":     signingAlgorithm,
		"X-Amz-Credential":    c.accessKey + "/" + scope,
		"X-Amz-Date":          amzDate,
		"X-Amz-Expires":       strconv.Itoa(int(expiresIn.Seconds())),
		"X-Amz-SignedHeaders": signedHeaders,
	}
	if c.sessionToken != "" {
		query["X-Amz-Security-Token"] = c.sessionToken
	}

	uri := c.objectURI(key)
	canonicalQuery := canonicalQueryString(query)
	headers := map[string]string{"host": c.host()}
	if contentType != "" {
		headers["content-type"] = contentType
	}
	canonicalHeaders, _ := canonicalHeaderString(headers)
	canonicalRequest := strings.Join([]string{
		method,
		uri,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		unsignedPayload,
	}, "\n")

	signature := c.sign(canonicalRequest, amzDate, date, scope)
	url := c.endpoint + uri + "?" + canonicalQuery + "&X-Amz-Signature=" + signature
	return domain.PresignedURL{
		URL:       url,
		Key:       key,
		ExpiresAt: now.Add(expiresIn),
	}, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, key)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("object delete failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) Head(ctx context.Context, key string) (domain.ObjectInfo, error) {
	resp, err := c.do(ctx, http.MethodHead, key)
	if err != nil {
		return domain.ObjectInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.ObjectInfo{}, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ObjectInfo{}, fmt.Errorf("object head failed: status %d", resp.StatusCode)
	}
	info := domain.ObjectInfo{
		Key:         key,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if length := resp.Header.Get("Content-Length"); length != "" {
		if parsed, err := strconv.ParseInt(length, 10, 64); err == nil {
			info.Size = parsed
		}
	}
	return info, nil
}

func (c *Client) do(ctx context.Context, method, key string) (*http.Response, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.New("object key is required")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+c.objectURI(key), nil)
	if err != nil {
		return nil, err
	}
	if err := c.signRequest(req); err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func (c *Client) checkConfig() error {
	if c == nil || c.endpoint == "" || c.bucket == "" || c.region == "" || c.accessKey == "" || c.secretKey == "" {
		return errors.New("object store client missing configuration")
	}
	return nil
}

func (c *Client) host() string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "https://"), "http://")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

func (c *Client) objectURI(key string) string {
	return "/" + c.bucket + "/" + uriEncodePath(key)
}

var _ domain.ObjectStore = (*Client)(nil)
