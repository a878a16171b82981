package probe

import (
	"fmt"

	"backend-probe/core/backend"
)

// outcomeFor maps an error kind to the outcome reported for data probes.
func outcomeFor(k backend.Kind) Outcome {
	switch k {
	case backend.KindNotFound:
		return OutcomeNotFound
	case backend.KindSchemaMismatch:
		return OutcomeSchemaMismatch
	case backend.KindPermission:
		return OutcomePermissionDenied
	default:
		return OutcomeUnknownError
	}
}

// failure converts err into a Result for stage. op names the step that failed
// and target the table or bucket it ran against.
func failure(stage Stage, op, target string, err error) Result {
	ce := backend.Classify(err)
	r := Result{
		Stage:     stage,
		Target:    target,
		Outcome:   outcomeFor(ce.Kind),
		ErrorKind: ce.Kind.String(),
		Err:       ce,
	}

	switch ce.Kind {
	case backend.KindNotFound:
		r.Message = fmt.Sprintf("%s: %s does not exist (%s)", op, target, ce.Error())
	case backend.KindSchemaMismatch:
		if ce.Column != "" {
			r.Message = fmt.Sprintf("%s: column %s does not exist on %s (%s)", op, ce.Column, target, ce.Error())
		} else {
			r.Message = fmt.Sprintf("%s: schema mismatch on %s (%s)", op, target, ce.Error())
		}
	case backend.KindPermission:
		r.Message = fmt.Sprintf("%s: permission denied on %s (%s)", op, target, ce.Error())
	case backend.KindConnectivity:
		r.Message = fmt.Sprintf("%s: backend unreachable (%s)", op, ce.Error())
	default:
		r.Message = fmt.Sprintf("%s failed: %s", op, ce.Error())
	}
	return r
}
