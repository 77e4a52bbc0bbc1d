package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/generator"
	"github.com/alexanderramin/peplaybook/internal/llm"
)

// PlaybookService generates playbooks with an AI provider, falling back to
// the deterministic generator when the provider call fails.
type PlaybookService interface {
	// Generate returns llm.ErrNotConfigured when no API key is available.
	// Every other provider failure yields a deterministic playbook whose
	// metadata records the fallback reason.
	Generate(ctx context.Context, in domain.GeneratorInput, creds llm.Credentials) (*domain.Playbook, error)
	// Status reports the provider creds resolve to and, when a key is
	// available, whether its endpoint answers.
	Status(ctx context.Context, creds llm.Credentials) Status
}

// Status describes the AI provider a generation would use.
type Status struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Endpoint   string `json:"endpoint"`
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	Error      string `json:"error,omitempty"`
}

type playbookService struct {
	gen     *generator.Generator
	factory llm.ClientFactory
}

// NewPlaybookService creates a PlaybookService over gen. Clients are built per
// call from factory so each request can carry its own credentials.
func NewPlaybookService(gen *generator.Generator, factory llm.ClientFactory) PlaybookService {
	return &playbookService{gen: gen, factory: factory}
}

func (s *playbookService) Generate(ctx context.Context, in domain.GeneratorInput, creds llm.Credentials) (*domain.Playbook, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	client, cfg, err := s.factory.NewClient(creds)
	if err != nil {
		return nil, fmt.Errorf("ai generation: %w", err)
	}

	base := s.gen.Generate(in)
	base.Metadata.Provider = cfg.Provider
	base.Metadata.Model = cfg.Model

	resp, err := client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlaybook,
		SystemPrompt: playbookSystemPrompt,
		UserPrompt:   BuildPlaybookPrompt(in, s.gen.Catalog()),
	})
	if err != nil {
		return DeterministicPlaybook(base, err), nil
	}

	sections := ExtractSections(resp.Text)
	if sections.Empty() {
		return DeterministicPlaybook(base, llm.ErrInvalidOutput), nil
	}

	ApplySections(base, sections)
	base.Metadata.Source = domain.SourceAI
	if resp.Model != "" {
		base.Metadata.Model = resp.Model
	}
	base.Metadata.FallbackSections = sections.Missing()
	return base, nil
}

func (s *playbookService) Status(ctx context.Context, creds llm.Credentials) Status {
	client, cfg, err := s.factory.NewClient(creds)
	st := Status{Provider: cfg.Provider, Model: cfg.Model, Endpoint: cfg.Endpoint}
	if creds.Model != "" {
		st.Model = creds.Model
	}
	if err != nil {
		st.Error = llm.ErrorCode(err)
		return st
	}
	st.Configured = true
	st.Reachable = client.Available(ctx)
	return st
}

// DeterministicPlaybook marks a deterministic playbook as the result of a
// failed AI call.
func DeterministicPlaybook(p *domain.Playbook, cause error) *domain.Playbook {
	p.Metadata.Source = domain.SourceDeterministic
	p.Metadata.FallbackReason = llm.ErrorCode(cause)
	return p
}

// ApplySections overlays extracted sections on p. Playbook-level lists are
// replaced wholesale; lesson 1 takes the AI warm-up, main activity and
// cool-down while later lessons keep the generated progression.
func ApplySections(p *domain.Playbook, s Sections) {
	if s.Title != nil {
		p.Title = *s.Title
	}
	if s.Objectives != nil {
		p.Goals = s.Objectives
	}
	if s.Materials != nil {
		p.Materials = s.Materials
	}
	if s.Assessments != nil {
		p.Assessments = s.Assessments
	}
	if s.Modifications != nil {
		p.Modifications = s.Modifications
	}
	if s.Safety != nil {
		p.SafetyConsiderations = s.Safety
	}
	if s.CrossCurricular != nil {
		p.CrossCurricular = s.CrossCurricular
	}
	if s.TakeHome != nil {
		p.TakeHome = *s.TakeHome
	}

	if len(p.Lessons) == 0 {
		return
	}
	first := &p.Lessons[0]

	if len(s.WarmUp) > 0 {
		first.WarmUp.Name = s.WarmUp[0]
		first.WarmUp.Description = strings.Join(s.WarmUp, "; ")
		first.WarmUp.Instructions = s.WarmUp
		first.WarmUp.Equipment = nil
	}

	if len(s.MainActivities) > 0 {
		lead := s.MainActivities[0]
		first.MainActivity.Name = lead.Name
		if lead.Description != "" {
			first.MainActivity.Description = lead.Description
		}
		first.MainActivity.Rules = nil
		first.MainActivity.Equipment = nil
		first.MainActivity.Instructions = nil
		for _, a := range s.MainActivities[1:] {
			line := fmt.Sprintf("%s (%s)", a.Name, a.Duration)
			if a.Description != "" {
				line += ": " + a.Description
			}
			first.MainActivity.Instructions = append(first.MainActivity.Instructions, line)
		}
	}

	if len(s.CoolDown) > 0 {
		var steps []string
		asked := false
		for _, item := range s.CoolDown {
			if strings.HasSuffix(item, "?") {
				if !asked {
					first.Closure.Reflection = item
					asked = true
				}
				continue
			}
			steps = append(steps, item)
		}
		if len(steps) > 0 {
			first.Closure.Description = strings.Join(steps, "; ")
		}
	}
}
