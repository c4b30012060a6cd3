package storage

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	account_id TEXT PRIMARY KEY,
	total_xp   INTEGER NOT NULL,
	level      INTEGER NOT NULL,
	streak     INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sections (
	account_id TEXT NOT NULL REFERENCES profiles(account_id) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	icon       TEXT NOT NULL,
	color_tag  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS tasks (
	account_id TEXT NOT NULL,
	section_id TEXT NOT NULL,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	xp         INTEGER NOT NULL,
	completed  INTEGER NOT NULL,
	due_at     TEXT,
	position   INTEGER NOT NULL,
	PRIMARY KEY (account_id, section_id, id),
	FOREIGN KEY (account_id, section_id) REFERENCES sections(account_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS history (
	account_id      TEXT NOT NULL REFERENCES profiles(account_id) ON DELETE CASCADE,
	date            TEXT NOT NULL,
	xp              INTEGER NOT NULL,
	tasks_completed INTEGER NOT NULL,
	PRIMARY KEY (account_id, date)
);
`
