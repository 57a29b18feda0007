package utils

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

type CORSMode string

const (
	CORSModeAllowList CORSMode = "allowlist"
	CORSModeAllowAll  CORSMode = "allow-all"
)

var ErrInvalidCORSConfig = errors.New("invalid CORS configuration")

var (
	DefaultAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	DefaultAllowedHeaders = []string{"Content-Type", "Authorization"}
)

// OriginRejectedError is returned for a request whose Origin matched no rule.
type OriginRejectedError struct {
	Origin string
}

func (e *OriginRejectedError) Error() string {
	return "Not allowed by CORS: " + e.Origin
}

// OriginRule decides whether a single origin is allowed.
type OriginRule interface {
	Match(origin string) bool
	String() string
}

type exactOriginRule string

func (r exactOriginRule) Match(origin string) bool { return string(r) == origin }
func (r exactOriginRule) String() string           { return string(r) }

type patternOriginRule struct {
	re *regexp.Regexp
}

func (r patternOriginRule) Match(origin string) bool { return r.re.MatchString(origin) }
func (r patternOriginRule) String() string           { return "/" + r.re.String() + "/" }

type OriginPolicyOptions struct {
	Mode             CORSMode
	AllowedOrigins   []string
	Patterns         []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// OriginPolicy is built once at startup and is read-only afterwards.
type OriginPolicy struct {
	mode        CORSMode
	rules       []OriginRule
	methods     string
	headers     string
	credentials bool
	maxAge      int
}

// OriginDecision describes an allowed request. Rule is empty when the request
// carried no Origin header.
type OriginDecision struct {
	Origin string
	Rule   string
}

func NewOriginPolicy(opts OriginPolicyOptions) (*OriginPolicy, error) {
	mode := opts.Mode
	if mode == "" {
		mode = CORSModeAllowList
	}

	policy := &OriginPolicy{
		mode:        mode,
		methods:     strings.Join(orDefault(opts.AllowedMethods, DefaultAllowedMethods), ", "),
		headers:     strings.Join(orDefault(opts.AllowedHeaders, DefaultAllowedHeaders), ", "),
		credentials: opts.AllowCredentials,
		maxAge:      opts.MaxAge,
	}

	switch mode {
	case CORSModeAllowAll:
		if opts.AllowCredentials {
			return nil, fmt.Errorf("%w: allow-all mode cannot be combined with credentials", ErrInvalidCORSConfig)
		}
		return policy, nil
	case CORSModeAllowList:
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidCORSConfig, mode)
	}

	for _, origin := range opts.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			return nil, fmt.Errorf("%w: wildcard origin requires allow-all mode", ErrInvalidCORSConfig)
		}
		policy.rules = append(policy.rules, exactOriginRule(origin))
	}

	for _, pattern := range opts.Patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidCORSConfig, pattern, err)
		}
		policy.rules = append(policy.rules, patternOriginRule{re: re})
	}

	return policy, nil
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func (p *OriginPolicy) Mode() CORSMode {
	return p.mode
}

func (p *OriginPolicy) AllowCredentials() bool {
	return p.credentials
}

// Rules lists the configured rules in evaluation order.
func (p *OriginPolicy) Rules() []string {
	out := make([]string, 0, len(p.rules))
	for _, rule := range p.rules {
		out = append(out, rule.String())
	}
	return out
}

// Resolve evaluates origin against the policy. Requests without an Origin
// header are always allowed.
func (p *OriginPolicy) Resolve(origin string) (OriginDecision, error) {
	if origin == "" {
		return OriginDecision{}, nil
	}

	if p.mode == CORSModeAllowAll {
		return OriginDecision{Origin: origin, Rule: "*"}, nil
	}

	for _, rule := range p.rules {
		if rule.Match(origin) {
			return OriginDecision{Origin: origin, Rule: rule.String()}, nil
		}
	}

	return OriginDecision{}, &OriginRejectedError{Origin: origin}
}

// ApplyHeaders writes the CORS response headers for an allowed origin.
func (p *OriginPolicy) ApplyHeaders(h http.Header, origin string, preflight bool) {
	if p.mode == CORSModeAllowAll {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
	}

	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Allow-Headers", p.headers)

	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}

	if preflight && p.maxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(p.maxAge))
	}
}
