package policy

import (
	"context"
	"errors"
	"os"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.upskill.reports.allow"

// DefaultModule is the built-in report-access policy, used when no policy
// file is configured. Operators can replace it wholesale via
// REPORT_POLICY_PATH.
const DefaultModule = `package upskill.reports

default allow = false

allow {
	input.principal.roles[_] == "Employer Admin"
}

allow {
	input.principal.permissions[_] == "view_reports"
}
`

// Input is the document handed to the policy for one report request.
type Input struct {
	Principal PrincipalInput `json:"principal"`
	Report    string         `json:"report"`
}

type PrincipalInput struct {
	SubjectID   string   `json:"subject_id"`
	Provider    string   `json:"provider"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func InputFor(principal domain.Principal, report string) Input {
	return Input{
		Principal: PrincipalInput{
			SubjectID:   principal.SubjectID,
			Provider:    string(principal.Provider),
			Roles:       principal.Roles,
			Permissions: principal.Permissions,
		},
		Report: report,
	}
}

// Engine evaluates report-access policy. The rego module is compiled once at
// startup; evaluation is in-process and side-effect free.
type Engine struct {
	query rego.PreparedEvalQuery
}

func NewEngine(ctx context.Context, module string) (*Engine, error) {
	if module == "" {
		module = DefaultModule
	}
	r := rego.New(
		rego.Query(defaultQuery),
		rego.Module("reports.rego", module),
		rego.StrictBuiltinErrors(true),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

func NewEngineFromPath(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, "")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewEngine(ctx, string(raw))
}

func (e *Engine) Allow(ctx context.Context, input Input) (bool, error) {
	if e == nil {
		return false, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, errors.New("policy result is not a boolean")
	}
	return allowed, nil
}
