package mysql

import "rosteretl/internal/roster"

var createTable = map[string]string{
	roster.TableSportsKinds: "CREATE TABLE `sports_kinds` (\n" +
		"  `id` INT NOT NULL AUTO_INCREMENT,\n" +
		"  `name` VARCHAR(50) NOT NULL,\n" +
		"  PRIMARY KEY (`id`)\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",

	roster.TableMembers: "CREATE TABLE `members` (\n" +
		"  `id` INT NOT NULL AUTO_INCREMENT,\n" +
		"  `name` VARCHAR(50) NOT NULL,\n" +
		"  `passport` VARCHAR(50) NOT NULL,\n" +
		"  PRIMARY KEY (`id`)\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",

	roster.TableTeams: "CREATE TABLE `teams` (\n" +
		"  `id` INT NOT NULL AUTO_INCREMENT,\n" +
		"  `name` VARCHAR(50) NOT NULL,\n" +
		"  `sports_kind_id` INT NOT NULL,\n" +
		"  `motto` VARCHAR(200) NULL,\n" +
		"  PRIMARY KEY (`id`),\n" +
		"  KEY `t2sk` (`sports_kind_id`),\n" +
		"  CONSTRAINT `t2sk` FOREIGN KEY (`sports_kind_id`) REFERENCES `sports_kinds` (`id`)\n" +
		"    ON DELETE CASCADE ON UPDATE CASCADE\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",

	roster.TableMemberships: "CREATE TABLE `members_teams` (\n" +
		"  `id` INT NOT NULL AUTO_INCREMENT,\n" +
		"  `member_id` INT NOT NULL,\n" +
		"  `team_id` INT NOT NULL,\n" +
		"  PRIMARY KEY (`id`),\n" +
		"  UNIQUE KEY `member_id_team_id` (`member_id`, `team_id`),\n" +
		"  KEY `mt2t` (`team_id`),\n" +
		"  CONSTRAINT `mt2t` FOREIGN KEY (`team_id`) REFERENCES `teams` (`id`)\n" +
		"    ON DELETE CASCADE ON UPDATE CASCADE,\n" +
		"  CONSTRAINT `mt2m` FOREIGN KEY (`member_id`) REFERENCES `members` (`id`)\n" +
		"    ON DELETE CASCADE ON UPDATE CASCADE\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}
