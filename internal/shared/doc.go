// Package shared contains the error taxonomy shared by the scheduler's
// packages: config validation, task execution, and alert dispatch each
// raise errors classified into one of a handful of Kinds so the CLI layer
// can decide exit codes without depending on their concrete types.
//
// Use KindOf to classify an error and MarkKind to tag one with a kind at
// the point it's raised:
//
//	if err != nil {
//	    return shared.MarkKind(err, shared.KindDependencyFailure)
//	}
//	...
//	switch shared.KindOf(err) {
//	case shared.KindValidation:
//	    os.Exit(1)
//	case shared.KindDependencyFailure:
//	    log.Warn("alert delivery failed", "err", err)
//	}
package shared
