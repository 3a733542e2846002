// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes storage
//
// WHY A SEPARATE SERVICE LAYER?
//  1. TESTING: business rules are tested with plain Go calls, no HTTP.
//  2. REUSE: the same rules apply whatever transport calls them.
//  3. SEPARATION: handlers know HTTP, services know rules, neither knows SQL.
//
// DEPENDENCY INJECTION:
// Every service takes repository interfaces, never *sqlite.DB or
// *postgres.DB. server.New decides which implementation to hand in; tests
// hand in fakes.
//
// SCHEMAS:
// The request shapes each operation accepts are declared here as
// validate.Schema values, next to the logic that relies on them. The HTTP
// layer runs request bodies through them before calling the service, so a
// service method can trust its typed arguments.
package service

import "github.com/sakif/crudauth/internal/validate"

// Validation limits.
const (
	MinPasswordLength = 4
	MaxUsernameLength = 64
	MaxNameLength     = 100
	MaxTitleLength    = 200
	MaxAuthorLength   = 100
)

// NewItemSchema is the body of POST /api/add-item.
var NewItemSchema = validate.Schema{
	Rules: []validate.Rule{
		validate.NotEmpty("name"),
		validate.IsString("name"),
		validate.MaxLength("name", MaxNameLength),
		validate.NotEmpty("description"),
		validate.IsString("description"),
	},
	Policy: validate.Forbid,
}

// ItemPatchSchema is the body of PUT /api/update-item/{id}. Every field is
// optional; an empty body is a valid no-op update.
var ItemPatchSchema = validate.Schema{
	Rules: []validate.Rule{
		validate.Optional(validate.IsString("name")),
		validate.Optional(validate.MaxLength("name", MaxNameLength)),
		validate.Optional(validate.IsString("description")),
	},
	Policy: validate.Forbid,
}

// CredentialsSchema is the body of /auth/register and /auth/login.
var CredentialsSchema = validate.Schema{
	Rules: []validate.Rule{
		validate.NotEmpty("username"),
		validate.IsString("username"),
		validate.MaxLength("username", MaxUsernameLength),
		validate.NotEmpty("password"),
		validate.IsString("password"),
		validate.MinLength("password", MinPasswordLength),
	},
	Policy: validate.Forbid,
}

// NewBookSchema is the body of POST /api/books.
var NewBookSchema = validate.Schema{
	Rules: []validate.Rule{
		validate.NotEmpty("title"),
		validate.IsString("title"),
		validate.MaxLength("title", MaxTitleLength),
		validate.NotEmpty("author"),
		validate.IsString("author"),
		validate.MaxLength("author", MaxAuthorLength),
		validate.Optional(validate.IsInt("year")),
	},
	Policy: validate.Forbid,
}

// BookPatchSchema is the body of PUT /api/books/{id}.
var BookPatchSchema = validate.Schema{
	Rules: []validate.Rule{
		validate.Optional(validate.IsString("title")),
		validate.Optional(validate.MaxLength("title", MaxTitleLength)),
		validate.Optional(validate.IsString("author")),
		validate.Optional(validate.MaxLength("author", MaxAuthorLength)),
		validate.Optional(validate.IsInt("year")),
	},
	Policy: validate.Forbid,
}

// Credentials is the decoded form of CredentialsSchema.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
