package validation

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

// Registry holds the client standards validation runs against. Standards
// are registered programmatically or loaded from a YAML file; reads vastly
// outnumber writes, so a RWMutex guards the map.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]domain.ClientStandards
	log     *logger.Logger
}

func NewRegistry(baseLog *logger.Logger) *Registry {
	return &Registry{
		clients: make(map[string]domain.ClientStandards),
		log:     baseLog.With("service", "StandardsRegistry"),
	}
}

// Register stores the standards under their client id, filling unset policy
// fields with defaults. Re-registering an id replaces the previous entry.
func (r *Registry) Register(s domain.ClientStandards) error {
	if s.ClientID == "" {
		return fmt.Errorf("register standards: %w: empty client_id", apperrors.ErrInvalidArgument)
	}
	withDefaults := s.WithDefaults()
	r.mu.Lock()
	r.clients[withDefaults.ClientID] = withDefaults
	r.mu.Unlock()
	r.log.Info("Registered client standards", "client_id", withDefaults.ClientID, "client_name", withDefaults.ClientName)
	return nil
}

func (r *Registry) Get(clientID string) (domain.ClientStandards, error) {
	r.mu.RLock()
	s, ok := r.clients[clientID]
	r.mu.RUnlock()
	if !ok {
		return domain.ClientStandards{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownClient, clientID)
	}
	return s, nil
}

// List returns all registered standards ordered by client id.
func (r *Registry) List() []domain.ClientStandards {
	r.mu.RLock()
	out := make([]domain.ClientStandards, 0, len(r.clients))
	for _, s := range r.clients {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// LoadFile reads a YAML (or JSON) standards file and registers every record
// in it. The file is either a bare list or a document with a top-level
// `clients` list. Returns the number of clients registered.
func (r *Registry) LoadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read standards file: %w", err)
	}

	var records []domain.ClientStandards
	var wrapper struct {
		Clients []domain.ClientStandards `yaml:"clients" json:"clients"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Clients) > 0 {
		records = wrapper.Clients
	} else {
		var list []domain.ClientStandards
		if err := yaml.Unmarshal(raw, &list); err != nil {
			return 0, fmt.Errorf("parse standards file %s: %w", path, err)
		}
		records = list
	}

	registered := 0
	for _, s := range records {
		if s.ClientID == "" {
			r.log.Warn("Skipping standards record without client_id", "path", path)
			continue
		}
		if err := r.Register(s); err != nil {
			return registered, err
		}
		registered++
	}
	return registered, nil
}
