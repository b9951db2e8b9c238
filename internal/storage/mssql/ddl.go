package mssql

import "rosteretl/internal/roster"

var createTable = map[string]string{
	roster.TableSportsKinds: `CREATE TABLE [sports_kinds] (
  [id] INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
  [name] NVARCHAR(50) NOT NULL
)`,

	roster.TableMembers: `CREATE TABLE [members] (
  [id] INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
  [name] NVARCHAR(50) NOT NULL,
  [passport] NVARCHAR(50) NOT NULL
)`,

	roster.TableTeams: `CREATE TABLE [teams] (
  [id] INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
  [name] NVARCHAR(50) NOT NULL,
  [sports_kind_id] INT NOT NULL,
  [motto] NVARCHAR(200) NULL,
  CONSTRAINT [t2sk] FOREIGN KEY ([sports_kind_id]) REFERENCES [sports_kinds] ([id])
    ON DELETE CASCADE ON UPDATE CASCADE
)`,

	roster.TableMemberships: `CREATE TABLE [members_teams] (
  [id] INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
  [member_id] INT NOT NULL,
  [team_id] INT NOT NULL,
  CONSTRAINT [member_id_team_id] UNIQUE ([member_id], [team_id]),
  CONSTRAINT [mt2t] FOREIGN KEY ([team_id]) REFERENCES [teams] ([id])
    ON DELETE CASCADE ON UPDATE CASCADE,
  CONSTRAINT [mt2m] FOREIGN KEY ([member_id]) REFERENCES [members] ([id])
    ON DELETE CASCADE ON UPDATE CASCADE
)`,
}
