package plugins

import (
	"fmt"
	"net/http"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
)

// JWTConfig configures the JWTBearer plugin.
type JWTConfig struct {
	// Secret is the HMAC-SHA256 signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Subject is the "sub" claim (optional).
	Subject string `yaml:"subject" mapstructure:"subject"`
	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *JWTConfig) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
}

// Validate checks that the configuration is valid.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return errors.Configuration("jwt.secret", "is required")
	}
	return nil
}

type jwtBearer struct {
	cfg JWTConfig
	now func() time.Time
}

// JWTBearer signs a short-lived HS256 token for every request and sends it
// as "Authorization: Bearer <token>", replacing any earlier value.
func JWTBearer(cfg JWTConfig) (httpclient.Plugin, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &jwtBearer{cfg: cfg, now: time.Now}, nil
}

func (j *jwtBearer) Name() string { return "jwt-bearer" }

func (j *jwtBearer) ObserveRequest(req *http.Request) (*http.Request, error) {
	token, err := j.sign()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func (j *jwtBearer) sign() (string, error) {
	now := j.now()
	claims := gojwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    j.cfg.Issuer,
		Subject:   j.cfg.Subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(j.cfg.TTL)),
	}
	if len(j.cfg.Audience) > 0 {
		claims.Audience = gojwt.ClaimStrings(j.cfg.Audience)
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}
