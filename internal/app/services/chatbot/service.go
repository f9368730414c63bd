// Package chatbot answers visitor questions from a keyword rule table. The
// rules are embedded at build time; matching is case-insensitive substring,
// first rule wins.
package chatbot

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/flowmatic-labs/platform/pkg/logger"
)

//go:embed rules.yaml
var rulesYAML []byte

type ruleSet struct {
	Greeting  string   `yaml:"greeting"`
	Rules     []rule   `yaml:"rules"`
	Fallbacks []string `yaml:"fallbacks"`
}

type rule struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Service replies to chat messages.
type Service struct {
	rules ruleSet

	mu  sync.Mutex
	rng *rand.Rand
}

// New loads the embedded rule table.
func New(seed int64, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewDefault("chatbot")
	}

	var rs ruleSet
	if err := yaml.Unmarshal(rulesYAML, &rs); err != nil {
		return nil, fmt.Errorf("parse chatbot rules: %w", err)
	}
	if len(rs.Fallbacks) == 0 {
		return nil, fmt.Errorf("chatbot rules define no fallback replies")
	}

	log.WithField("rules", len(rs.Rules)).Info("chatbot rules loaded")
	return &Service{
		rules: rs,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Greeting is the opening message shown when a conversation starts.
func (s *Service) Greeting() string {
	return s.rules.Greeting
}

// Reply answers a message. The first rule whose keyword appears in the
// lowercased message wins; unmatched messages get a fallback reply.
func (s *Service) Reply(message string) string {
	lowered := strings.ToLower(message)
	for _, r := range s.rules.Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				return r.Reply
			}
		}
	}
	return s.fallback()
}

func (s *Service) fallback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Fallbacks[s.rng.Intn(len(s.rules.Fallbacks))]
}
