package objectstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	awsServiceS3     = "s3"
	signingAlgorithm = "AWS4-HMAC-SHA256"
	unsignedPayload  = "UNSIGNED-PAYLOAD"
)

func (c *Client) sign(canonicalRequest, amzDate, date, scope string) string {
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")
	signingKey := deriveSigningKey(c.secretKey, date, c.region, awsServiceS3)
	return hmacHex(signingKey, []byte(stringToSign))
}

// signRequest header-signs a bodyless request (DELETE/HEAD).
func (c *Client) signRequest(req *http.Request) error {
	host := req.URL.Host
	if host == "" {
		return errors.New("request host missing")
	}
	req.Header.Set("Host", host)

	now := c.clock().UTC()
	amzDate := now.Format("20060102T150405Z")
	date := amzDate[:8]
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", sha256Hex(nil))
	if c.sessionToken != "" {
		req.Header.Set("X-Amz-Security-Token", c.sessionToken)
	}

	headers := make(map[string]string, len(req.Header))
	for name := range req.Header {
		headers[strings.ToLower(name)] = strings.TrimSpace(req.Header.Get(name))
	}
	canonicalHeaders, signedHeaders := canonicalHeaderString(headers)
	canonicalRequest := strings.Join([]string{
		req.Method,
		req.URL.EscapedPath(),
		canonicalQueryFromURL(req.URL),
		canonicalHeaders,
		signedHeaders,
		sha256Hex(nil),
	}, "\n")

	scope := date + "/" + c.region + "/" + awsServiceS3 + "/aws4_request"
	signature := c.sign(canonicalRequest, amzDate, date, scope)
	req.Header.Set("Authorization", signingAlgorithm+
		" Credential="+c.accessKey+"/"+scope+
		", SignedHeaders="+signedHeaders+
		", Signature="+signature)
	return nil
}

func canonicalHeaderString(headers map[string]string) (string, string) {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var canonical strings.Builder
	for _, key := range keys {
		canonical.WriteString(key)
		canonical.WriteString(":")
		canonical.WriteString(headers[key])
		canonical.WriteString("\n")
	}
	return canonical.String(), strings.Join(keys, ";")
}

func canonicalQueryString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, uriEncode(key)+"="+uriEncode(params[key]))
	}
	return strings.Join(pairs, "&")
}

func canonicalQueryFromURL(u *url.URL) string {
	values := u.Query()
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return canonicalQueryString(params)
}

// uriEncode applies the stricter AWS variant of percent-encoding: everything
// except unreserved characters is escaped, including '/'.
func uriEncode(value string) string {
	var out strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if isUnreserved(ch) {
			out.WriteByte(ch)
			continue
		}
		out.WriteString("%" + strings.ToUpper(hex.EncodeToString([]byte{ch})))
	}
	return out.String()
}

// uriEncodePath encodes an object key segment by segment, keeping the '/'
// separators literal.
func uriEncodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = uriEncode(segment)
	}
	return strings.Join(segments, "/")
}

func isUnreserved(ch byte) bool {
	switch {
	case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
		return true
	case ch == '-' || ch == '_' || ch == '.' || ch == '~':
		return true
	}
	return false
}

func deriveSigningKey(secret, date, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(date))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hmacHex(key, data []byte) string {
	return hex.EncodeToString(hmacSHA256(key, data))
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
