package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Count expired sessions only; no DB writes")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
	timeout     = flag.Duration("timeout", 2*time.Minute, "Overall deadline for the sweep")
)

const (
	countExpiredSQL  = `SELECT COUNT(*) FROM app_auth.sessions WHERE expires_at <= now()`
	deleteExpiredSQL = `DELETE FROM app_auth.sessions WHERE expires_at <= now()`
)

// sweep-sessions removes expired rows from app_auth.sessions. The server also
// sweeps in-process; this is for cron jobs and for deployments that run the
// server with the sweeper disabled.
func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock so overlapping cron runs do not race
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	var expired int64
	if err := tx.QueryRowContext(ctx, countExpiredSQL).Scan(&expired); err != nil {
		fatalf("count expired: %v", err)
	}
	fmt.Printf("Expired sessions: %d\n", expired)

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	res, err := tx.ExecContext(ctx, deleteExpiredSQL)
	if err != nil {
		fatalf("delete expired: %v", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		fatalf("rows affected: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("Deleted %d expired sessions\n", deleted)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
