// Package services implements the driving port interfaces.
// Services contain the core business logic: chunking, the dual-index
// retrieval operations, the agent tools, the bounded tool-calling loop,
// and conversational memory.
//
// Services are pure Go and depend only on domain and the driven ports.
package services
