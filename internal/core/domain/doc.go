// Package domain contains the core business entities for jirafetch:
// tickets, result pages, exclusion rules, export configuration and
// export run records. It has no dependencies on adapters or external
// services.
package domain
