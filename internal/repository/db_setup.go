package repository

import (
	"database/sql"
	"log"

	"taskmaster/internal/models"
	"taskmaster/pkg/crypto"
)

func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS member (
    id SERIAL PRIMARY KEY,
    username VARCHAR(255) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL,
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255),
    handle VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS session (
    token VARCHAR(255) PRIMARY KEY,
    member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS workspace (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    slug VARCHAR(255) NOT NULL UNIQUE,
    description TEXT,
    created_by INT NOT NULL REFERENCES member (id),
    created_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS workspace_member (
    workspace_id INT NOT NULL REFERENCES workspace (id) ON DELETE CASCADE,
    member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
    PRIMARY KEY (workspace_id, member_id)
);

CREATE TABLE IF NOT EXISTS board (
    id SERIAL PRIMARY KEY,
    workspace_id INT NOT NULL REFERENCES workspace (id),
    title VARCHAR(255) NOT NULL,
    description TEXT
);

CREATE TABLE IF NOT EXISTS board_member (
    board_id INT NOT NULL REFERENCES board (id) ON DELETE CASCADE,
    member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
    role VARCHAR(32) NOT NULL DEFAULT 'member',
    PRIMARY KEY (board_id, member_id)
);

CREATE TABLE IF NOT EXISTS task_status (
    id SERIAL PRIMARY KEY,
    name VARCHAR(64) NOT NULL UNIQUE,
    color VARCHAR(32) NOT NULL
);

CREATE TABLE IF NOT EXISTS task_priority (
    id SERIAL PRIMARY KEY,
    level VARCHAR(64) NOT NULL UNIQUE,
    color VARCHAR(32) NOT NULL
);

CREATE TABLE IF NOT EXISTS task (
    id SERIAL PRIMARY KEY,
    board_id INT NOT NULL REFERENCES board (id),
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    points INT NOT NULL DEFAULT 0,
    status_id INT NOT NULL REFERENCES task_status (id),
    priority_id INT NOT NULL REFERENCES task_priority (id),
    created_by INT NOT NULL REFERENCES member (id),
    assigned_to INT REFERENCES member (id),
    due_date DATE,
    created_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS comment (
    id SERIAL PRIMARY KEY,
    task_id INT NOT NULL REFERENCES task (id),
    author_id INT NOT NULL REFERENCES member (id),
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS category (
    id SERIAL PRIMARY KEY,
    value VARCHAR(50) NOT NULL,
    color VARCHAR(10) NOT NULL DEFAULT '#94a3b8'
);

CREATE TABLE IF NOT EXISTS task_category (
    task_id INT NOT NULL REFERENCES task (id),
    category_id INT NOT NULL REFERENCES category (id),
    PRIMARY KEY (task_id, category_id)
);

INSERT INTO task_status (name, color) VALUES
    ('To Do', '#94a3b8'),
    ('In Progress', '#3b82f6'),
    ('Done', '#22c55e')
ON CONFLICT (name) DO NOTHING;

INSERT INTO task_priority (level, color) VALUES
    ('Low', 'secondary'),
    ('Medium', 'default'),
    ('High', 'destructive')
ON CONFLICT (level) DO NOTHING;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error creating tables: %v", err)
	}
}

// CreateAdminMember seeds an administrator account for a fresh install.
func CreateAdminMember(db *sql.DB, username, password string) {
	hash, err := crypto.HashPassword(password, crypto.DefaultArgon2Params())
	if err != nil {
		log.Fatalf("Error hashing admin password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO member (username, email, first_name, handle, password_hash, is_admin, status)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		ON CONFLICT (username) DO NOTHING`,
		username, username+"@example.com", "Admin", "@"+username, hash, models.MemberActive)
	if err != nil {
		log.Fatalf("Error inserting admin member: %v", err)
	}
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS task_category;
    DROP TABLE IF EXISTS category;
    DROP TABLE IF EXISTS comment;
    DROP TABLE IF EXISTS task;
    DROP TABLE IF EXISTS task_priority;
    DROP TABLE IF EXISTS task_status;
    DROP TABLE IF EXISTS board_member;
    DROP TABLE IF EXISTS board;
    DROP TABLE IF EXISTS workspace_member;
    DROP TABLE IF EXISTS workspace;
    DROP TABLE IF EXISTS session;
    DROP TABLE IF EXISTS member;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting tables: %v", err)
	}
}
