package sqlite

import "rosteretl/internal/roster"

var createTable = map[string]string{
	roster.TableSportsKinds: `CREATE TABLE "sports_kinds" (
  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
  "name" VARCHAR(50) NOT NULL
)`,

	roster.TableMembers: `CREATE TABLE "members" (
  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
  "name" VARCHAR(50) NOT NULL,
  "passport" VARCHAR(50) NOT NULL
)`,

	roster.TableTeams: `CREATE TABLE "teams" (
  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
  "name" VARCHAR(50) NOT NULL,
  "sports_kind_id" INTEGER NOT NULL
    REFERENCES "sports_kinds" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
  "motto" VARCHAR(200) NULL
)`,

	roster.TableMemberships: `CREATE TABLE "members_teams" (
  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
  "member_id" INTEGER NOT NULL
    REFERENCES "members" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
  "team_id" INTEGER NOT NULL
    REFERENCES "teams" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
  UNIQUE ("member_id", "team_id")
)`,
}
