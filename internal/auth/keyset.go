package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
)

// KeySet fetches and caches the identity provider's published signing keys
// (JWKS). The fetch is lazy and happens at most once per process: the first
// token verification resolves the provider's discovery document, follows
// its jwks_uri, and caches the parsed keys for the process lifetime. The
// initialization is mutex-guarded so concurrent first requests trigger a
// single discovery fetch.
type KeySet struct {
	authority string
	client    *http.Client

	mu     sync.Mutex
	keys   map[string]*rsa.PublicKey
	loaded bool
}

// NewKeySet creates a KeySet for the given OIDC authority. A nil client
// falls back to http.DefaultClient.
func NewKeySet(authority string, client *http.Client) *KeySet {
	if client == nil {
		client = http.DefaultClient
	}
	return &KeySet{
		authority: authority,
		client:    client,
	}
}

// Key returns the public key published under the given key id, fetching
// the provider's key set on first use. Unknown kids fail without a
// refetch; the cached set is read-only after initialization.
func (k *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.loaded {
		keys, err := k.fetch(ctx)
		if err != nil {
			return nil, err
		}
		k.keys = keys
		k.loaded = true
	}

	key, ok := k.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no signing key with kid %q", kid)
	}
	return key, nil
}

// discoveryDocument is the portion of the OIDC discovery response we need.
type discoveryDocument struct {
	JWKSURI string `json:"jwks_uri"`
}

// jwk is one entry of the provider's published key set. Only RSA keys are
// supported; the tokens are RS256-signed.
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (k *KeySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	discoveryURL := strings.TrimRight(k.authority, "/") + "/.well-known/openid-configuration"

	var discovery discoveryDocument
	if err := k.getJSON(ctx, discoveryURL, &discovery); err != nil {
		return nil, fmt.Errorf("fetching discovery document: %w", err)
	}
	if discovery.JWKSURI == "" {
		return nil, fmt.Errorf("discovery document has no jwks_uri")
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := k.getJSON(ctx, discovery.JWKSURI, &set); err != nil {
		return nil, fmt.Errorf("fetching key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, key := range set.Keys {
		if key.Kty != "RSA" || key.Kid == "" {
			continue
		}
		pub, err := key.publicKey()
		if err != nil {
			return nil, fmt.Errorf("parsing key %q: %w", key.Kid, err)
		}
		keys[key.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("key set contains no usable RSA keys")
	}

	return keys, nil
}

func (k *KeySet) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// publicKey decodes the base64url modulus and exponent into an RSA key.
func (j jwk) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, fmt.Errorf("invalid exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
