package repository

// Rows are never removed by cascade: comments, likes, bookmarks and entries
// may outlive the writing they point at, so there are no foreign keys.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL,
    password      TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    email         TEXT NOT NULL,
    username_lower TEXT NOT NULL,
    email_lower   TEXT NOT NULL,
    bio           TEXT,
    profile_image TEXT,
    is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username_lower);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email_lower);

CREATE TABLE IF NOT EXISTS writings (
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT NOT NULL,
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    description TEXT NOT NULL,
    cover_image TEXT,
    category    TEXT NOT NULL,
    tags        TEXT NOT NULL DEFAULT 'null',
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    read_time   INTEGER NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_writings_user ON writings (user_id);

CREATE TABLE IF NOT EXISTS comments (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL,
    writing_id BIGINT NOT NULL,
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_writing ON comments (writing_id);

CREATE TABLE IF NOT EXISTS likes (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL,
    writing_id BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, writing_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_writing ON likes (writing_id);

CREATE TABLE IF NOT EXISTS bookmarks (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL,
    writing_id BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, writing_id)
);

CREATE TABLE IF NOT EXISTS follows (
    id           BIGSERIAL PRIMARY KEY,
    follower_id  BIGINT NOT NULL,
    following_id BIGINT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (follower_id, following_id)
);

CREATE INDEX IF NOT EXISTS idx_follows_following ON follows (following_id);

CREATE TABLE IF NOT EXISTS challenges (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    end_date    TIMESTAMPTZ NOT NULL,
    word_limit  TEXT,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS challenge_entries (
    id           BIGSERIAL PRIMARY KEY,
    challenge_id BIGINT NOT NULL,
    writing_id   BIGINT NOT NULL,
    rank         INTEGER,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_challenge ON challenge_entries (challenge_id);

CREATE TABLE IF NOT EXISTS notifications (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL,
    type       TEXT NOT NULL,
    message    TEXT NOT NULL,
    is_read    BOOLEAN NOT NULL DEFAULT FALSE,
    metadata   TEXT NOT NULL DEFAULT 'null',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL,
    password      TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    email         TEXT NOT NULL,
    username_lower TEXT NOT NULL,
    email_lower   TEXT NOT NULL,
    bio           TEXT,
    profile_image TEXT,
    is_admin      BOOLEAN NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username_lower);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email_lower);

CREATE TABLE IF NOT EXISTS writings (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL,
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    description TEXT NOT NULL,
    cover_image TEXT,
    category    TEXT NOT NULL,
    tags        TEXT NOT NULL DEFAULT 'null',
    is_featured BOOLEAN NOT NULL DEFAULT 0,
    read_time   INTEGER NOT NULL DEFAULT 1,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_writings_user ON writings(user_id);

CREATE TABLE IF NOT EXISTS comments (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    writing_id INTEGER NOT NULL,
    content    TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_writing ON comments(writing_id);

CREATE TABLE IF NOT EXISTS likes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    writing_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    UNIQUE(user_id, writing_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_writing ON likes(writing_id);

CREATE TABLE IF NOT EXISTS bookmarks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    writing_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    UNIQUE(user_id, writing_id)
);

CREATE TABLE IF NOT EXISTS follows (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    follower_id  INTEGER NOT NULL,
    following_id INTEGER NOT NULL,
    created_at   DATETIME NOT NULL,
    UNIQUE(follower_id, following_id)
);

CREATE INDEX IF NOT EXISTS idx_follows_following ON follows(following_id);

CREATE TABLE IF NOT EXISTS challenges (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    end_date    DATETIME NOT NULL,
    word_limit  TEXT,
    created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS challenge_entries (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    challenge_id INTEGER NOT NULL,
    writing_id   INTEGER NOT NULL,
    rank         INTEGER,
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_challenge ON challenge_entries(challenge_id);

CREATE TABLE IF NOT EXISTS notifications (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    type       TEXT NOT NULL,
    message    TEXT NOT NULL,
    is_read    BOOLEAN NOT NULL DEFAULT 0,
    metadata   TEXT NOT NULL DEFAULT 'null',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);
`
