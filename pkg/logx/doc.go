// Package logx configures openhours' structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - Noisy call sites rate limited (Logger.Limited)
package logx
