// roadtool edits Bezier road paths stored as JSON documents and turns them
// into meshes, previews and plots.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errUsage marks argument errors; the command's usage line is printed with it.
var errUsage = errors.New("usage")

type command struct {
	run   func(args []string) error
	usage string
}

var commands = map[string]command{
	"new":     {cmdNew, "roadtool new [flags] <file.json> [center x,y,z]"},
	"info":    {cmdInfo, "roadtool info [flags] <file.json>"},
	"add":     {cmdAdd, "roadtool add [flags] <file.json> <x,y,z>"},
	"move":    {cmdMove, "roadtool move [flags] <file.json> <index> <x,y,z>"},
	"split":   {cmdSplit, "roadtool split [flags] <file.json> <segment> <x,y,z>"},
	"remove":  {cmdRemove, "roadtool remove [flags] <file.json> <anchor index>"},
	"close":   {cmdClose, "roadtool close [flags] <file.json>"},
	"auto":    {cmdAuto, "roadtool auto [flags] <file.json> <on|off>"},
	"build":   {cmdBuild, "roadtool build [flags] [-o out.obj] [-terrain] <file.json>"},
	"preview": {cmdPreview, "roadtool preview [flags] [-o out.png] <file.json>"},
	"plot":    {cmdPlot, "roadtool plot [flags] [-o out.pdf] <file.json>"},
	"save":    {cmdSave, "roadtool save [flags] <file.json> [name]"},
	"load":    {cmdLoad, "roadtool load [flags] <name> <file.json>"},
	"list":    {cmdList, "roadtool list [flags]"},
	"delete":  {cmdDelete, "roadtool delete [flags] <name>"},
	"schema":  {cmdSchema, "roadtool schema"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	switch name {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
		printUsage()
		os.Exit(1)
	}

	err := cmd.run(os.Args[2:])
	shutdown()
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Usage: %s\n", cmd.usage)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`roadtool - Bezier road path utility

Usage:
  roadtool <command> [flags] [arguments]

Path editing:
  new <file.json> [x,y,z]          Create a one-segment path centred on x,y,z
  info <file.json>                 Show path, curve and mesh statistics
  add <file.json> <x,y,z>          Append an anchor to an open path
  move <file.json> <i> <x,y,z>     Move control point i
  split <file.json> <seg> <x,y,z>  Insert an anchor into segment seg
  remove <file.json> <i>           Remove the anchor at point index i
  close <file.json>                Toggle between open and closed
  auto <file.json> <on|off>        Switch automatic control points

Output:
  build <file.json>                Write the road mesh as Wavefront OBJ
  preview <file.json>              Render a top-down PNG preview
  plot <file.json>                 Write a plan view PDF

Store:
  save <file.json> [name]          Store the path in the database
  load <name> <file.json>          Write a stored path to a file
  list                             List stored paths
  delete <name>                    Remove a stored path
  schema                           Print the path document JSON schema

Common flags (before the arguments):
  -config, -debug, -width, -thickness, -offset-y, -mode, -accuracy,
  -max-angle, -spacing, -auto, -heightmap, -store, -db, -dsn

Examples:
  roadtool new -auto track.json
  roadtool add track.json 6,0,3
  roadtool build -mode strip -o track.obj track.json
  roadtool preview -heightmap hills.png track.json
  roadtool save -store postgres -dsn postgres://localhost/roads track.json`)
}
