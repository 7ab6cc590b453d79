package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/curtainfire/config"
	"github.com/binzume/curtainfire/shot"
	"github.com/binzume/curtainfire/shottype"
	"github.com/binzume/curtainfire/texture"
	"github.com/binzume/curtainfire/world"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] scenario.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s info file.pmx|file.vmd\n", os.Args[0])
		flag.PrintDefaults()
	}
	confFile := flag.String("config", "", "config file (.yaml)")
	pmxOut := flag.String("pmx", "", "output model (.pmx)")
	vmdOut := flag.String("vmd", "", "output motion (.vmd)")
	texLimit := flag.Int("texlimit", -1, "max texture size. 0:unlimited")
	saveConf := flag.String("saveconfig", "", "write the effective config to this file")
	progress := flag.Int("progress", 0, "log progress every N frames")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	if flag.Arg(0) == "info" {
		for _, f := range flag.Args()[1:] {
			if err := printInfo(f); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	conf := config.Default()
	if *confFile != "" {
		var err error
		conf, err = config.Load(*confFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *pmxOut != "" {
		conf.Output.PMX = *pmxOut
	}
	if *vmdOut != "" {
		conf.Output.VMD = *vmdOut
	}
	if *texLimit >= 0 {
		conf.Output.ResolutionLimit = *texLimit
	}
	conf.Scenario = flag.Arg(0)
	if *saveConf != "" {
		if err := conf.Save(*saveConf); err != nil {
			log.Fatal(err)
		}
	}

	if err := run(conf, *progress); err != nil {
		log.Fatal(err)
	}
}

func run(conf *config.Config, progress int) error {
	opts, err := conf.EngineOptions()
	if err != nil {
		return err
	}
	types := shottype.NewDefaultRegistry()
	if err := types.LoadConfig(conf); err != nil {
		return err
	}
	log.Println("Shot types:", strings.Join(types.Names(), ", "))

	sc, err := world.LoadScenario(conf.Scenario)
	if err != nil {
		return err
	}

	engine := shot.NewEngine(opts)
	w := world.New(engine, types)
	if progress > 0 {
		w.OnFrame = func(frame int, st shot.Stats) {
			if frame%progress == 0 {
				log.Printf("frame %d/%d: %d shots in %d groups", frame, sc.Frames, st.Shots, st.Groups)
			}
		}
	}
	if err := w.Run(sc); err != nil {
		return err
	}

	doc, anim, err := engine.Finalize()
	if err != nil {
		return err
	}
	log.Printf("Model: %d bones, %d vertices, %d materials, %d morphs", len(doc.Bones), len(doc.Vertexes), len(doc.Materials), len(doc.Morphs))
	log.Printf("Motion: %d bone frames, %d morph frames", len(anim.Bone), len(anim.Morph))

	pmxPath := conf.Output.PMX
	err = texture.Collect(doc, filepath.Dir(pmxPath), &texture.Options{
		SubDir:          conf.Output.TextureDir,
		ResolutionLimit: conf.Output.ResolutionLimit,
	})
	if err != nil {
		return err
	}
	if err := savePMX(doc, pmxPath); err != nil {
		return err
	}
	return saveVMD(anim, conf.Output.VMD)
}
