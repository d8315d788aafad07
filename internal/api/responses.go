package api

import "github.com/calegray/tradepost/internal/api/shared"

// Aliases to the shared response/request helpers so handlers in this package
// can use them unqualified.
var (
	RespondWithJSON        = shared.RespondWithJSON
	RespondWithError       = shared.RespondWithError
	RespondWithErrorAndLog = shared.RespondWithErrorAndLog
	RespondWithFieldErrors = shared.RespondWithFieldErrors
	DecodeJSON             = shared.DecodeJSON
)
