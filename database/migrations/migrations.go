// Package migrations holds the kasir schema. Importing it registers every
// migration with pkg/migration.
package migrations
