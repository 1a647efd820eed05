// Package chinook defines the music-store schema: table DDL in dependency
// order, secondary indexes, and the optional distribution zone statement.
// All DDL is plain text fed through the script importer, so the same
// statements drive setup, verification and teardown.
package chinook

import (
	"fmt"

	"chinookdemo/internal/config"
)

// Table describes one schema table: its creation DDL and the secondary
// indexes defined over it. Tables() returns them in dependency order, so
// referenced tables always precede their referrers.
type Table struct {
	Name    string
	DDL     string
	Indexes []string
}

// Tables returns the full schema in creation order.
func Tables() []Table {
	return []Table{
		{
			Name: "Artist",
			DDL: `CREATE TABLE IF NOT EXISTS Artist (
  ArtistId INT NOT NULL,
  Name VARCHAR(120),
  PRIMARY KEY (ArtistId)
)`,
		},
		{
			Name: "Album",
			DDL: `CREATE TABLE IF NOT EXISTS Album (
  AlbumId INT NOT NULL,
  Title VARCHAR(160) NOT NULL,
  ArtistId INT NOT NULL,
  PRIMARY KEY (AlbumId)
)`,
			Indexes: []string{
				"CREATE INDEX IF NOT EXISTS IFK_AlbumArtistId ON Album (ArtistId)",
			},
		},
		{
			Name: "Genre",
			DDL: `CREATE TABLE IF NOT EXISTS Genre (
  GenreId INT NOT NULL,
  Name VARCHAR(120),
  PRIMARY KEY (GenreId)
)`,
		},
		{
			Name: "MediaType",
			DDL: `CREATE TABLE IF NOT EXISTS MediaType (
  MediaTypeId INT NOT NULL,
  Name VARCHAR(120),
  PRIMARY KEY (MediaTypeId)
)`,
		},
		{
			Name: "Track",
			DDL: `CREATE TABLE IF NOT EXISTS Track (
  TrackId INT NOT NULL,
  Name VARCHAR(200) NOT NULL,
  AlbumId INT,
  MediaTypeId INT NOT NULL,
  GenreId INT,
  Composer VARCHAR(220),
  Milliseconds INT NOT NULL,
  Bytes INT,
  UnitPrice NUMERIC(10,2) NOT NULL,
  PRIMARY KEY (TrackId)
)`,
			Indexes: []string{
				"CREATE INDEX IF NOT EXISTS IFK_TrackAlbumId ON Track (AlbumId)",
				"CREATE INDEX IF NOT EXISTS IFK_TrackGenreId ON Track (GenreId)",
				"CREATE INDEX IF NOT EXISTS IFK_TrackMediaTypeId ON Track (MediaTypeId)",
			},
		},
		{
			Name: "Customer",
			DDL: `CREATE TABLE IF NOT EXISTS Customer (
  CustomerId INT NOT NULL,
  FirstName VARCHAR(40) NOT NULL,
  LastName VARCHAR(20) NOT NULL,
  Company VARCHAR(80),
  Address VARCHAR(70),
  City VARCHAR(40),
  State VARCHAR(40),
  Country VARCHAR(40),
  PostalCode VARCHAR(10),
  Phone VARCHAR(24),
  Fax VARCHAR(24),
  Email VARCHAR(60) NOT NULL,
  SupportRepId INT,
  PRIMARY KEY (CustomerId)
)`,
		},
		{
			Name: "Invoice",
			DDL: `CREATE TABLE IF NOT EXISTS Invoice (
  InvoiceId INT NOT NULL,
  CustomerId INT NOT NULL,
  InvoiceDate TIMESTAMP NOT NULL,
  BillingAddress VARCHAR(70),
  BillingCity VARCHAR(40),
  BillingState VARCHAR(40),
  BillingCountry VARCHAR(40),
  BillingPostalCode VARCHAR(10),
  Total NUMERIC(10,2) NOT NULL,
  PRIMARY KEY (InvoiceId)
)`,
			Indexes: []string{
				"CREATE INDEX IF NOT EXISTS IFK_InvoiceCustomerId ON Invoice (CustomerId)",
			},
		},
		{
			Name: "InvoiceLine",
			DDL: `CREATE TABLE IF NOT EXISTS InvoiceLine (
  InvoiceLineId INT NOT NULL,
  InvoiceId INT NOT NULL,
  TrackId INT NOT NULL,
  UnitPrice NUMERIC(10,2) NOT NULL,
  Quantity INT NOT NULL,
  PRIMARY KEY (InvoiceLineId)
)`,
			Indexes: []string{
				"CREATE INDEX IF NOT EXISTS IFK_InvoiceLineInvoiceId ON InvoiceLine (InvoiceId)",
				"CREATE INDEX IF NOT EXISTS IFK_InvoiceLineTrackId ON InvoiceLine (TrackId)",
			},
		},
		{
			Name: "Playlist",
			DDL: `CREATE TABLE IF NOT EXISTS Playlist (
  PlaylistId INT NOT NULL,
  Name VARCHAR(120),
  PRIMARY KEY (PlaylistId)
)`,
		},
		{
			Name: "PlaylistTrack",
			DDL: `CREATE TABLE IF NOT EXISTS PlaylistTrack (
  PlaylistId INT NOT NULL,
  TrackId INT NOT NULL,
  PRIMARY KEY (PlaylistId, TrackId)
)`,
			Indexes: []string{
				"CREATE INDEX IF NOT EXISTS IFK_PlaylistTrackTrackId ON PlaylistTrack (TrackId)",
			},
		},
	}
}

// TableNames returns the table names in creation order.
func TableNames() []string {
	tables := Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// ZoneStatement returns the distribution zone DDL, or "" when no zone is
// configured. Zone syntax belongs to the external store; servers without
// zone support reject the statement and the importer treats that as a
// soft failure.
func ZoneStatement(cfg *config.Config) string {
	if cfg.Zone == "" {
		return ""
	}
	return fmt.Sprintf(
		"CREATE ZONE IF NOT EXISTS %s WITH REPLICAS=%d, PARTITIONS=%d, STORAGE_PROFILES='default'",
		cfg.Zone, cfg.ZoneReplicas, cfg.ZonePartitions)
}

// SchemaStatements returns the full schema creation script: zone first,
// then tables in dependency order, then all secondary indexes.
func SchemaStatements(cfg *config.Config) []string {
	var statements []string
	if zone := ZoneStatement(cfg); zone != "" {
		statements = append(statements, zone)
	}
	tables := Tables()
	for _, t := range tables {
		statements = append(statements, t.DDL)
	}
	for _, t := range tables {
		statements = append(statements, t.Indexes...)
	}
	return statements
}

// DropStatements returns teardown DDL: tables in reverse creation order so
// referrers go before their referenced tables, then the zone.
func DropStatements(cfg *config.Config) []string {
	tables := Tables()
	statements := make([]string, 0, len(tables)+1)
	for i := len(tables) - 1; i >= 0; i-- {
		statements = append(statements, "DROP TABLE IF EXISTS "+tables[i].Name)
	}
	if cfg.Zone != "" {
		statements = append(statements, "DROP ZONE IF EXISTS "+cfg.Zone)
	}
	return statements
}
