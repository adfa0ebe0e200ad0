// Package model defines the provider-neutral interface for language model
// invocation plus the normalized request/response structures shared by the
// concrete adapters in the subpackages (openai, anthropic).
package model
