package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/curtainfire/mmd"
)

func loadPMX(path string) (*mmd.Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return mmd.Parse(r)
}

func loadVMD(path string) (*mmd.Motion, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return mmd.ParseVMD(r)
}

// savePMX and saveVMD encode in memory first so a failed encode leaves no
// partial file behind.
func savePMX(doc *mmd.Document, path string) error {
	var buf bytes.Buffer
	if err := mmd.WritePMX(doc, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func saveVMD(anim *mmd.Motion, path string) error {
	var buf bytes.Buffer
	if err := mmd.WriteVMD(anim, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func printInfo(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pmx":
		doc, err := loadPMX(path)
		if err != nil {
			return err
		}
		log.Println("Name: ", doc.Name)
		log.Println("Comment: ", doc.Comment)
		log.Printf("Index sizes: vertex %d, texture %d, material %d, bone %d, morph %d",
			doc.Header.Info[mmd.AttrVertIndexSz], doc.Header.Info[mmd.AttrTexIndexSz], doc.Header.Info[mmd.AttrMatIndexSz],
			doc.Header.Info[mmd.AttrBoneIndexSz], doc.Header.Info[mmd.AttrMorphIndexSz])
		log.Printf("Vertices: %d, Faces: %d, Textures: %d, Materials: %d, Bones: %d, Morphs: %d",
			len(doc.Vertexes), len(doc.Faces), len(doc.Textures), len(doc.Materials), len(doc.Bones), len(doc.Morphs))
		for _, m := range doc.Morphs {
			log.Printf("  morph %s: %v x%d", m.Name, m.MorphType, len(m.Elements))
		}
	case ".vmd":
		anim, err := loadVMD(path)
		if err != nil {
			return err
		}
		log.Println("Name: ", anim.Name)
		for name, ch := range anim.GetBoneChannels() {
			log.Printf("  bone %s: %d frames", name, len(ch.Frames))
		}
		for name, ch := range anim.GetMorphChannels() {
			log.Printf("  morph %s: %d frames", name, len(ch.Frames))
		}
	default:
		return fmt.Errorf("unsupported file: %v", path)
	}
	return nil
}
