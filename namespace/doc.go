// Package namespace builds delimited key prefixes such as "app:users:42".
package namespace
