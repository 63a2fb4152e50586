// tdstool is a CLI utility for inspecting and converting 3DS model files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/go-3ds/internal/config"
	"github.com/Faultbox/go-3ds/internal/export"
	"github.com/Faultbox/go-3ds/internal/logger"
	"github.com/Faultbox/go-3ds/pkg/tds"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	tds.SetLogger(logger.Log)

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch command := args[0]; command {
	case "info":
		cmdInfo(args[1:])
	case "dump":
		cmdDump(args[1:])
	case "gltf", "convert":
		cmdGLTF(args[1:], cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tdstool - 3DS model file utility

Usage:
  tdstool [options] <command> [args]

Commands:
  info <file.3ds>    Show a short summary of the file
  dump <file.3ds>    Print models, meshes and materials in detail
  gltf <file.3ds>    Convert to glTF 2.0

Options:
  -config path       Explicit config file
  -debug             Enable debug logging (logs skipped chunks)
  -log-file path     Also write logs to a rotating file
  -out dir           Output directory for converted files
  -binary            Write binary glTF (.glb)

Examples:
  tdstool info scene.3ds
  tdstool -debug dump scene.3ds
  tdstool -out ./models -binary gltf scene.3ds`)
}

func loadScene(args []string, command string) (*tds.Scene, string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tdstool %s <file.3ds>\n", command)
		os.Exit(1)
	}

	scene, err := tds.DecodeFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return scene, args[0]
}

func cmdInfo(args []string) {
	scene, path := loadScene(args, "info")

	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Models:    %d\n", len(scene.Models))
	fmt.Printf("Materials: %d\n", len(scene.Materials))
	fmt.Printf("Vertices:  %d\n", scene.TotalVertexCount())
	fmt.Printf("Faces:     %d\n", scene.TotalFaceCount())
}

func cmdDump(args []string) {
	scene, path := loadScene(args, "dump")

	fmt.Printf("%s\n\n", path)

	for _, model := range scene.Models {
		fmt.Printf("model %q\n", model.Name)
		for i, mesh := range model.Meshes {
			fmt.Printf("  mesh %d: %d vertices, %d faces, %d texcoords\n",
				i, len(mesh.Vertices), len(mesh.Faces), len(mesh.TexCoords))
			for _, group := range mesh.MaterialGroups {
				fmt.Printf("    material group %q: %d faces\n",
					group.MaterialName, len(group.FaceIndices))
			}
			if len(mesh.SmoothingGroups) > 0 {
				fmt.Printf("    smoothing groups: %d faces\n", len(mesh.SmoothingGroups))
			}
		}
	}

	for _, m := range scene.Materials {
		fmt.Printf("material %q\n", m.Name)
		fmt.Printf("  diffuse  %.3f %.3f %.3f\n", m.Diffuse.R, m.Diffuse.G, m.Diffuse.B)
		fmt.Printf("  ambient  %.3f %.3f %.3f\n", m.Ambient.R, m.Ambient.G, m.Ambient.B)
		fmt.Printf("  specular %.3f %.3f %.3f\n", m.Specular.R, m.Specular.G, m.Specular.B)
		fmt.Printf("  opacity  %.2f  shininess %.1f\n", m.Opacity, m.Shininess)
		if m.TextureMap != "" {
			fmt.Printf("  texture  %s\n", m.TextureMap)
		}
	}
}

func cmdGLTF(args []string, cfg *config.Config) {
	scene, path := loadScene(args, "gltf")

	ext := ".gltf"
	if cfg.Export.Binary {
		ext = ".glb"
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(cfg.Export.OutputDir, base+ext)

	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := export.Save(scene, outPath, cfg.Export.Binary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Converted: %s (%d models, %d faces)\n",
		outPath, len(scene.Models), scene.TotalFaceCount())
}
