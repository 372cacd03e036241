// OpenPDF-sub002 - a library for composing paginated PDF documents
// Copyright (C) 2025  The OpenPDF-sub002 Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/justifiedsolutions/OpenPDF-sub002/sign"
)

func reserve(args []string) error {
	flags := flag.NewFlagSet("reserve", flag.ExitOnError)
	size := flags.Int("size", sign.DefaultSize, "bytes reserved for the signature")
	name := flags.String("name", "", "name of the signer")
	reason := flags.String("reason", "", "reason for signing")
	location := flags.String("location", "", "location of signing")
	field := flags.String("field", "", "name of the signature field")
	outFile := flags.String("o", "", "output file")
	flags.Parse(args)
	if flags.NArg() != 1 || *outFile == "" {
		return fmt.Errorf("%w: reserve needs an input file and -o", errUsage)
	}

	in, err := os.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(*outFile)
	if err != nil {
		return err
	}
	s, err := sign.Reserve(in, fi.Size(), out, &sign.Options{
		Size:      *size,
		Time:      time.Now(),
		FieldName: *field,
		Name:      *name,
		Reason:    *reason,
		Location:  *location,
	})
	if err != nil {
		out.Close()
		return err
	}
	err = out.Close()
	if err != nil {
		return err
	}
	return printDigest(s)
}

func digest(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: digest needs one file", errUsage)
	}
	fd, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fd.Close()
	fi, err := fd.Stat()
	if err != nil {
		return err
	}
	s, err := sign.Open(fd, fi.Size())
	if err != nil {
		return err
	}
	return printDigest(s)
}

func printDigest(s *sign.Session) error {
	sum, err := s.Digest(sha256.New())
	if err != nil {
		return err
	}
	for _, r := range s.ByteRanges() {
		fmt.Printf("range %d-%d\n", r.Start, r.End)
	}
	fmt.Println("sha256", hex.EncodeToString(sum))
	return nil
}

func finalize(args []string) error {
	flags := flag.NewFlagSet("finalize", flag.ExitOnError)
	sigFile := flags.String("sig", "", "file holding the encoded signature")
	flags.Parse(args)
	if flags.NArg() != 1 || *sigFile == "" {
		return fmt.Errorf("%w: finalize needs -sig and one file", errUsage)
	}

	sig, err := os.ReadFile(*sigFile)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(flags.Arg(0), os.O_RDWR, 0)
	if err != nil {
		return err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return err
	}
	s, err := sign.Open(fd, fi.Size())
	if err != nil {
		fd.Close()
		return err
	}
	err = s.Finalize(fd, sig)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
