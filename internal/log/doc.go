// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// tabgroupdl reads browser profiles, which hold cookies and signed-in
// sessions. The SecureHandler keeps that material out of log output:
//   - Credential-like attribute keys (cookie, token, auth, password, ...)
//     are replaced with a mask
//   - Values that look like secrets (bearer tokens, JWTs, long keys) are masked
//   - URL attributes keep their path and content id but lose signature and
//     token query parameters
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, slog.LevelInfo)
//	logger.Info("attempt failed",
//	    "url", "https://www.youtube.com/watch?v=abc&sig=XYZ", // sig is masked
//	    "cookie", "SID=...",                                  // masked
//	)
//	slog.SetDefault(logger)
package log
