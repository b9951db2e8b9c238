package postgres

import "rosteretl/internal/roster"

var createTable = map[string]string{
	roster.TableSportsKinds: `CREATE TABLE "sports_kinds" (
  "id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  "name" VARCHAR(50) NOT NULL
)`,

	roster.TableMembers: `CREATE TABLE "members" (
  "id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  "name" VARCHAR(50) NOT NULL,
  "passport" VARCHAR(50) NOT NULL
)`,

	roster.TableTeams: `CREATE TABLE "teams" (
  "id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  "name" VARCHAR(50) NOT NULL,
  "sports_kind_id" INTEGER NOT NULL,
  "motto" VARCHAR(200) NULL,
  CONSTRAINT "t2sk" FOREIGN KEY ("sports_kind_id") REFERENCES "sports_kinds" ("id")
    ON DELETE CASCADE ON UPDATE CASCADE
)`,

	roster.TableMemberships: `CREATE TABLE "members_teams" (
  "id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  "member_id" INTEGER NOT NULL,
  "team_id" INTEGER NOT NULL,
  CONSTRAINT "member_id_team_id" UNIQUE ("member_id", "team_id"),
  CONSTRAINT "mt2t" FOREIGN KEY ("team_id") REFERENCES "teams" ("id")
    ON DELETE CASCADE ON UPDATE CASCADE,
  CONSTRAINT "mt2m" FOREIGN KEY ("member_id") REFERENCES "members" ("id")
    ON DELETE CASCADE ON UPDATE CASCADE
)`,
}
