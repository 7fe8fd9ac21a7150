package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedMembershipRoutes(mux, handler, verifier)
	registerAuthorizedChallengeRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/expire-challenges", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunExpireChallengesJob)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/activity", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueActivity)))
}

func registerAuthorizedMembershipRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/ladder", RequireAuth(verifier, http.HandlerFunc(handler.GetLadder)))
	mux.Handle("PUT /v1/leagues/{leagueID}/availability", RequireAuth(verifier, http.HandlerFunc(handler.UpdateAvailability)))
	mux.Handle("GET /v1/leagues/{leagueID}/members/{userID}/shared-availability", RequireAuth(verifier, http.HandlerFunc(handler.GetSharedAvailability)))
	mux.Handle("PUT /v1/leagues/{leagueID}/status", RequireAuth(verifier, http.HandlerFunc(handler.SetMemberStatus)))
}

func registerAuthorizedChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/challenges", RequireAuth(verifier, http.HandlerFunc(handler.CreateChallenge)))
	mux.Handle("GET /v1/leagues/{leagueID}/challenges", RequireAuth(verifier, http.HandlerFunc(handler.ListMyChallenges)))
	mux.Handle("GET /v1/challenges/{challengeID}", RequireAuth(verifier, http.HandlerFunc(handler.GetChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/withdraw", RequireAuth(verifier, http.HandlerFunc(handler.WithdrawChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/score", RequireAuth(verifier, http.HandlerFunc(handler.SubmitChallengeScore)))
}
