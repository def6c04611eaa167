package storage

const schema = `
-- Card sources: local directories or git repositories that deck files are
-- synced from.
CREATE TABLE IF NOT EXISTS sources (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    path         TEXT NOT NULL UNIQUE,
    type         TEXT NOT NULL DEFAULT 'local',
    last_scanned TEXT
);

-- One deck per parsed file; the name comes from the file's deck header.
CREATE TABLE IF NOT EXISTS decks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    source_id  INTEGER,
    created_at TEXT NOT NULL,

    UNIQUE(source_id, name),
    FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE CASCADE
);

-- Cards carry their spaced-repetition record inline. The id is a content
-- hash, so edits produce a new card and re-syncs keep scheduling state.
-- due_date and last_studied are calendar days (YYYY-MM-DD); known is NULL
-- until the card's first review.
CREATE TABLE IF NOT EXISTS cards (
    id           TEXT PRIMARY KEY,
    deck_id      INTEGER NOT NULL,
    front        TEXT NOT NULL,
    back         TEXT NOT NULL DEFAULT '',
    interval     INTEGER NOT NULL DEFAULT 1,
    repetitions  INTEGER NOT NULL DEFAULT 0,
    ease_factor  REAL NOT NULL DEFAULT 2.5,
    due_date     TEXT,
    last_studied TEXT,
    known        INTEGER,

    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id);
CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(due_date);

-- Completed study stretches, whatever timer drove them.
CREATE TABLE IF NOT EXISTS study_sessions (
    id         TEXT PRIMARY KEY,
    deck_id    INTEGER,
    kind       TEXT NOT NULL,
    started_at TEXT NOT NULL,
    ended_at   TEXT NOT NULL,
    seconds    INTEGER NOT NULL,
    reviewed   INTEGER NOT NULL DEFAULT 0,
    correct    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON study_sessions(started_at);
`
