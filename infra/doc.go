// Package infra contains technical adapters such as the upstream HTTP
// clients, the response cache and metrics exporters. These packages should
// depend only on the interfaces defined in the core packages.
package infra
