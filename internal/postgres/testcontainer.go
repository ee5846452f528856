package postgres

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/aio"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage = "postgres:17-alpine3.20"
	// imageEnv overrides the postgres image, e.g. to use a mirror in CI.
	imageEnv = "YGO_TEST_POSTGRES_IMAGE"
)

// NewRunner starts a postgres container with the card catalog schema for integration tests.
func NewRunner() *DatabaseRunner {
	image := os.Getenv(imageEnv)
	if image == "" {
		image = defaultImage
	}

	return &DatabaseRunner{
		image: image,
		db: config.Database{
			Username: "tester",
			Password: "tester",
			Database: "cardmanager",
		},
	}
}

type DatabaseRunner struct {
	image string
	db    config.Database
	conn  *DBConnection
}

// Run starts the container, connects to the catalog database and runs the tests.
// The container is removed after the tests finished.
func (r *DatabaseRunner) Run(t *testing.T, runTests func(t *testing.T)) {
	t.Helper()

	ctx := t.Context()
	err := r.withContainer(ctx, func(cfg config.Database) (err error) {
		conn, err := Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer func(toClose *DBConnection) {
			if cErr := toClose.Close(); cErr != nil {
				err = errors.Wrap(cErr, "failed to close database connection")
			}
		}(conn)
		r.conn = conn

		runTests(t)

		return nil
	})

	if err != nil {
		t.Fatalf("failed to run tests with postgres container %v", err)
	}
}

func (r *DatabaseRunner) Connection() *DBConnection {
	return r.conn
}

// Cleanup returns a func that removes all catalog rows, use it with t.Cleanup.
func (r *DatabaseRunner) Cleanup(t *testing.T) func() {
	t.Helper()

	return func() {
		if cErr := r.conn.Cleanup(context.Background()); cErr != nil {
			t.Fatalf("failed to cleanup database %v", cErr)
		}
	}
}

// initScripts returns all scripts of testdata/db in execution order.
func initScripts() ([]testcontainers.ContainerFile, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("failed to get current dir")
	}

	dbDir, err := filepath.EvalSymlinks(filepath.Join(filepath.Dir(file), "testdata", "db"))
	if err != nil {
		return nil, err
	}

	var scripts []string
	for _, pattern := range []string{"*.sh", "*.sql"} {
		matches, err := filepath.Glob(filepath.Join(dbDir, pattern))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, matches...)
	}
	// postgres runs the init scripts ordered by name
	slices.Sort(scripts)

	var scriptPermissions int64 = 0755
	files := make([]testcontainers.ContainerFile, 0, len(scripts))
	for _, s := range scripts {
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      s,
			ContainerFilePath: "/docker-entrypoint-initdb.d/" + filepath.Base(s),
			FileMode:          scriptPermissions,
		})
	}

	return files, nil
}

func (r *DatabaseRunner) withContainer(ctx context.Context, f func(c config.Database) error) (err error) {
	scripts, err := initScripts()
	if err != nil {
		return err
	}

	req := testcontainers.ContainerRequest{
		Image:        r.image,
		ExposedPorts: []string{"5432/tcp"},
		Files:        scripts,
		Env: map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "test",
			"APP_DB_USER":       r.db.Username,
			"APP_DB_PASS":       r.db.Password,
			"APP_DB_NAME":       r.db.Database,
		},
		// the server restarts once after running the init scripts
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(2 * time.Minute),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	defer func(toClose testcontainers.Container) {
		cErr := toClose.Terminate(context.Background())
		if cErr != nil {
			if err == nil {
				err = cErr
			} else {
				err = errors.Wrap(err, cErr.Error())
			}
		}
	}(postgresC)

	if e := log.Debug(); e.Enabled() {
		logs, err := postgresC.Logs(ctx)
		if err != nil {
			return err
		}
		defer aio.Close(logs)

		b, err := io.ReadAll(logs)
		if err != nil {
			return err
		}
		e.Str("image", r.image).Msg(string(b))
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		return err
	}

	mappedPort, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		return err
	}

	dbConfig := r.db
	dbConfig.Host = host
	dbConfig.Port = mappedPort.Port()

	return f(dbConfig)
}
