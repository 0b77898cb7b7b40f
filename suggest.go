package hs220

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/generic"

	"github.com/davincikj153/HS220-simulator/kinematics"
)

var HS220SuggestModel = resource.NewModel("davincikj153", "hs220", "suggest")

func init() {
	resource.RegisterService(
		generic.API,
		HS220SuggestModel,
		resource.Registration[resource.Resource, *HS220SuggestConfig]{
			Constructor: newHS220Suggest,
		},
	)
}

// HS220SuggestConfig configures the pose suggestion service. Endpoint is an
// HTTP URL that accepts the current joints plus a free-text intent and
// returns a suggested joint vector.
type HS220SuggestConfig struct {
	Arm      string        `json:"arm"`
	Endpoint string        `json:"endpoint"`
	Timeout  time.Duration `json:"timeout,omitempty"`
	APIKey   string        `json:"api_key,omitempty"`
}

// Validate ensures all parts of the config are valid
func (cfg *HS220SuggestConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Arm == "" {
		return nil, nil, fmt.Errorf("must specify the arm to suggest poses for")
	}
	if cfg.Endpoint == "" {
		return nil, nil, fmt.Errorf("must specify the suggestion endpoint URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return []string{cfg.Arm}, nil, nil
}

// Suggester maps the current joint state and a free-text intent to a new
// joint vector. Implementations must not assume the result is in range; the
// service clamps before applying.
type Suggester interface {
	Suggest(ctx context.Context, current kinematics.Joints, intent string) (kinematics.Joints, error)
}

type suggestRequest struct {
	Joints [6]float64 `json:"joints"`
	Intent string     `json:"intent"`
}

type suggestResponse struct {
	Joints []float64 `json:"joints"`
}

// httpSuggester posts the joint state and intent as JSON and expects a
// six-element joint array back.
type httpSuggester struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func newHTTPSuggester(endpoint, apiKey string, timeout time.Duration) *httpSuggester {
	return &httpSuggester{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (h *httpSuggester) Suggest(ctx context.Context, current kinematics.Joints, intent string) (kinematics.Joints, error) {
	var out kinematics.Joints

	body, err := json.Marshal(suggestRequest{Joints: current, Intent: intent})
	if err != nil {
		return out, fmt.Errorf("failed to encode suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return out, fmt.Errorf("suggestion endpoint returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return out, fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	if len(parsed.Joints) != 6 {
		return out, fmt.Errorf("suggestion endpoint returned %d joints, expected 6", len(parsed.Joints))
	}

	copy(out[:], parsed.Joints)
	if !kinematics.Finite(out) {
		return out, fmt.Errorf("suggestion endpoint returned non-finite joints: %v", out)
	}
	return out, nil
}

// hs220Suggest wires a Suggester to a running arm's joint store. The
// suggestion source is a black box; the service only trusts the result after
// finite-checking and clamping it to the joint limits.
type hs220Suggest struct {
	resource.AlwaysRebuild

	name      resource.Name
	logger    logging.Logger
	cfg       *HS220SuggestConfig
	store     *JointStore
	suggester Suggester
}

func newHS220Suggest(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*HS220SuggestConfig](rawConf)
	if err != nil {
		return nil, err
	}
	if conf.Timeout == 0 {
		conf.Timeout = 30 * time.Second
	}

	store, err := AttachSharedStore(conf.Arm)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to arm %q: %w", conf.Arm, err)
	}

	s := &hs220Suggest{
		name:      rawConf.ResourceName(),
		logger:    logger,
		cfg:       conf,
		store:     store,
		suggester: newHTTPSuggester(conf.Endpoint, conf.APIKey, conf.Timeout),
	}

	logger.Infof("HS220 suggestion service initialized for arm %q (endpoint: %s)", conf.Arm, conf.Endpoint)
	return s, nil
}

func (s *hs220Suggest) Name() resource.Name {
	return s.name
}

func (s *hs220Suggest) DoCommand(ctx context.Context, cmd map[string]any) (map[string]any, error) {
	command, ok := cmd["command"].(string)
	if !ok {
		return nil, fmt.Errorf("command must be a string")
	}

	switch command {
	case "suggest":
		intent, ok := cmd["intent"].(string)
		if !ok || intent == "" {
			return nil, fmt.Errorf("suggest command requires a non-empty 'intent' string")
		}
		apply, _ := cmd["apply"].(bool)
		return s.suggest(ctx, intent, apply)

	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func (s *hs220Suggest) suggest(ctx context.Context, intent string, apply bool) (map[string]any, error) {
	current := s.store.Joints()

	suggested, err := s.suggester.Suggest(ctx, current, intent)
	if err != nil {
		return nil, err
	}

	limits := s.store.Limits()
	clamped := limits.Clamp(suggested)
	for i := range suggested {
		if clamped[i] != suggested[i] {
			s.logger.Warnf("Suggested joint %d angle %.3f deg out of range, clamped to %.3f deg",
				i+1, suggested[i], clamped[i])
		}
	}

	if apply {
		if _, err := s.store.SetJoints(clamped); err != nil {
			return nil, fmt.Errorf("failed to apply suggested joints: %w", err)
		}
	}

	pose := s.store.Params().Pose(clamped)

	jointValues := make([]any, 6)
	for i, v := range clamped {
		jointValues[i] = v
	}
	return map[string]any{
		"joints_deg": jointValues,
		"applied":    apply,
		"pose": map[string]any{
			"x": pose.X, "y": pose.Y, "z": pose.Z,
			"rx": pose.RX, "ry": pose.RY, "rz": pose.RZ,
		},
	}, nil
}

func (s *hs220Suggest) Close(ctx context.Context) error {
	ReleaseSharedStore(s.cfg.Arm)
	return nil
}
