// Package main is the Dagger pipeline for Warden: tests, enum generation checks,
// container images and a local stack with PostgreSQL and Redis.
package main

import (
	"context"
	"dagger/warden/internal/dagger"
	"fmt"
	"strings"
)

const (
	goImage       = "golang:1.24.2-alpine"
	runtimeImage  = "gcr.io/distroless/static-debian12:latest"
	postgresImage = "postgres:17-alpine"
	redisImage    = "redis:7-alpine"
)

// binaries are the commands shipped in the image.
var binaries = []string{"worker", "db", "admin", "entrypoint"}

type Warden struct{}

// goBase returns a Go toolchain container with the source mounted and module caches shared.
func goBase(src *dagger.Directory) *dagger.Container {
	return dag.Container().
		From(goImage).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("warden-go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("warden-go-build")).
		WithDirectory("/src", src, dagger.ContainerWithDirectoryOpts{
			Exclude: []string{"dagger/", "logs/", "bin/"},
		}).
		WithWorkdir("/src").
		WithEnvVariable("CGO_ENABLED", "0")
}

// Test vets the module and runs its unit tests. Redis-backed tests use miniredis,
// so no services are needed.
func (m *Warden) Test(
	ctx context.Context,
	// +required
	src *dagger.Directory,
	// Packages to test
	// +optional
	// +default="./..."
	pkgs string,
) (string, error) {
	if pkgs == "" {
		pkgs = "./..."
	}

	return goBase(src).
		WithExec([]string{"go", "vet", pkgs}).
		WithExec([]string{"go", "test", "-count=1", pkgs}).
		Stdout(ctx)
}

// CheckGenerated fails when the committed enumer output is out of date.
func (m *Warden) CheckGenerated(
	ctx context.Context,
	// +required
	src *dagger.Directory,
) error {
	generated := goBase(src).
		WithExec([]string{"go", "generate", "./internal/database/types/enum/..."}).
		Directory("/src/internal/database/types/enum")

	diff, err := dag.Container().
		From("alpine:3.21").
		WithDirectory("/committed", src.Directory("internal/database/types/enum")).
		WithDirectory("/generated", generated).
		WithExec([]string{"diff", "-r", "/committed", "/generated"}, dagger.ContainerWithExecOpts{
			Expect: dagger.ReturnTypeAny,
		}).
		Stdout(ctx)
	if err != nil {
		return fmt.Errorf("failed to compare generated enums: %w", err)
	}
	if strings.TrimSpace(diff) != "" {
		return fmt.Errorf("generated enums are stale, run go generate:\n%s", diff)
	}
	return nil
}

// BuildContainer builds the runtime image for one platform.
func (m *Warden) BuildContainer(
	ctx context.Context,
	// +required
	src *dagger.Directory,
	// +optional
	// +default="linux/amd64"
	platform *dagger.Platform,
) (*dagger.Container, error) {
	buildPlatform := dagger.Platform("linux/amd64")
	if platform != nil {
		buildPlatform = *platform
	}

	arch, err := dag.Containerd().ArchitectureOf(ctx, buildPlatform)
	if err != nil {
		return nil, fmt.Errorf("failed to get architecture: %w", err)
	}

	build := goBase(src).
		WithEnvVariable("GOOS", "linux").
		WithEnvVariable("GOARCH", arch).
		WithExec([]string{"apk", "add", "--no-cache", "ca-certificates"})

	for _, binary := range binaries {
		build = build.WithExec([]string{
			"go", "build", "-trimpath", "-ldflags=-s -w",
			"-o", "/out/bin/" + binary,
			"./cmd/" + binary,
		})
	}

	return dag.Container(dagger.ContainerOpts{Platform: buildPlatform}).
		From(runtimeImage).
		WithDirectory("/app/bin", build.Directory("/out/bin")).
		WithFile("/etc/ssl/certs/ca-certificates.crt", build.File("/etc/ssl/certs/ca-certificates.crt")).
		WithWorkdir("/app").
		WithEntrypoint([]string{"/app/bin/entrypoint"}).
		WithEnvVariable("RUN_TYPE", "worker").
		WithEnvVariable("WORKERS_COUNT", "1").
		WithExposedPort(9090), nil
}

// Publish tests the module, then pushes a multi-platform image.
func (m *Warden) Publish(
	ctx context.Context,
	// +required
	src *dagger.Directory,
	// Image reference, e.g. "ghcr.io/robalyx/warden:latest"
	// +required
	imageName string,
	// Comma-separated platforms
	// +optional
	// +default="linux/amd64"
	platforms string,
) (string, error) {
	if _, err := m.Test(ctx, src, ""); err != nil {
		return "", fmt.Errorf("tests failed: %w", err)
	}

	var variants []*dagger.Container
	for _, p := range strings.Split(platforms, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		platform := dagger.Platform(p)
		ctr, err := m.BuildContainer(ctx, src, &platform)
		if err != nil {
			return "", fmt.Errorf("failed to build container for %s: %w", p, err)
		}
		variants = append(variants, ctr)
	}
	if len(variants) == 0 {
		ctr, err := m.BuildContainer(ctx, src, nil)
		if err != nil {
			return "", err
		}
		variants = append(variants, ctr)
	}

	ref, err := dag.Container().Publish(ctx, imageName, dagger.ContainerPublishOpts{
		PlatformVariants: variants,
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish image: %w", err)
	}
	return ref, nil
}

// Postgres returns a throwaway PostgreSQL service with the credentials of config/common.toml.
func (m *Warden) Postgres() *dagger.Service {
	return dag.Container().
		From(postgresImage).
		WithEnvVariable("POSTGRES_USER", "postgres").
		WithEnvVariable("POSTGRES_PASSWORD", "postgres").
		WithEnvVariable("POSTGRES_DB", "warden").
		WithExposedPort(5432).
		AsService()
}

// Redis returns a throwaway Redis service.
func (m *Warden) Redis() *dagger.Service {
	return dag.Container().
		From(redisImage).
		WithExposedPort(6379).
		AsService()
}

// Stack runs a command of the image against local PostgreSQL and Redis services.
// The config directory must point postgresql.host at "postgres" and redis.host at "redis".
func (m *Warden) Stack(
	ctx context.Context,
	// +required
	src *dagger.Directory,
	// +required
	configDir *dagger.Directory,
	// RUN_TYPE of the entrypoint: "worker", "migrate" or "admin"
	// +optional
	// +default="worker"
	runType string,
	// Arguments for the admin command
	// +optional
	args []string,
) (*dagger.Container, error) {
	image, err := m.BuildContainer(ctx, src, nil)
	if err != nil {
		return nil, err
	}

	// Migrations run before the requested command.
	base := image.
		WithServiceBinding("postgres", m.Postgres()).
		WithServiceBinding("redis", m.Redis()).
		WithDirectory("/etc/warden/config", configDir).
		WithEnvVariable("RUN_TYPE", "migrate").
		WithExec(nil, dagger.ContainerWithExecOpts{UseEntrypoint: true})

	if runType == "" || runType == "migrate" {
		return base, nil
	}

	return base.
		WithEnvVariable("RUN_TYPE", runType).
		WithExec(args, dagger.ContainerWithExecOpts{UseEntrypoint: true}), nil
}
