// Command nbtsample writes a sample NBT document with every kind of tag, for
// trying out nbted.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/tag"
)

var (
	envelope = flag.String("envelope", "gzip", "raw, gzip or zlib")
	depth    = flag.Int("depth", 0, "nest this many extra compounds under \"deep\"")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nbtsample [flags] out.dat")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	env, err := parseEnvelope(*envelope)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var buf bytes.Buffer
	codec := nbt.Codec{MaxDepth: *depth + nbt.DefaultMaxDepth}
	if err := codec.Encode(&buf, sample(*depth), env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(flag.Arg(0), buf.Bytes(), 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseEnvelope(s string) (nbt.Envelope, error) {
	for _, e := range []nbt.Envelope{nbt.Raw, nbt.Gzip, nbt.Zlib} {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown envelope %q", s)
}

func sample(depth int) *tag.Tree {
	deep := tag.NewCompound()
	for i := 0; i < depth; i++ {
		deep = tag.NewCompound(tag.E("level", tag.Int(i)), tag.E("next", deep))
	}
	player := tag.NewCompound(
		tag.E("Health", tag.Float(20)),
		tag.E("XpLevel", tag.Int(30)),
		tag.E("OnGround", tag.Byte(1)),
		tag.E("Pos", tag.NewList(tag.Double(-12.5), tag.Double(64), tag.Double(301.25))),
		tag.E("Inventory", tag.NewList(
			tag.NewCompound(tag.E("id", tag.String("minecraft:torch")), tag.E("Count", tag.Byte(64))),
			tag.NewCompound(tag.E("id", tag.String("minecraft:bread")), tag.E("Count", tag.Byte(3))),
		)),
	)
	return &tag.Tree{Name: "Data", Root: tag.NewCompound(
		tag.E("LevelName", tag.String("New World")),
		tag.E("RandomSeed", tag.Long(-4172144997902289642)),
		tag.E("DayTime", tag.Long(6000)),
		tag.E("SpawnY", tag.Short(64)),
		tag.E("BorderSize", tag.Double(5.9999968e+07)),
		tag.E("Player", player),
		tag.E("Heightmap", tag.ByteArray{1, 2, 3, -4}),
		tag.E("Sections", tag.IntArray{0, 1, 2}),
		tag.E("Timestamps", tag.LongArray{1700000000000}),
		tag.E("Empty", tag.NewList()),
		tag.E("deep", deep),
	)}
}
