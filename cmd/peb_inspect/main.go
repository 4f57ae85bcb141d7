package main

import (
	"flag"
	"fmt"
	"os"

	"remotemem/cmdline"
	"remotemem/peb"
	"remotemem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID whose PEB to inspect")
	cmdlineFlag := flag.String("cmdline", "", "Command line to resolve to an executable path")
	flag.Parse()

	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "peb-inspect"))

	if *pidFlag == 0 && *cmdlineFlag == "" {
		fmt.Println("Error: --pid or --cmdline is required")
		flag.Usage()
		os.Exit(1)
	}

	if *cmdlineFlag != "" {
		path, err := cmdline.NewResolver().ResolveExecutablePath(*cmdlineFlag)
		if err != nil {
			fmt.Printf("Error resolving %q: %v\n", *cmdlineFlag, err)
			os.Exit(1)
		}
		fmt.Printf("Executable: %s\n", path)
	}

	if *pidFlag == 0 {
		return
	}

	target, closeTarget, err := getTarget(process.ProcessID(*pidFlag))
	if err != nil {
		fmt.Printf("Error attaching to process %d: %v\n", *pidFlag, err)
		os.Exit(1)
	}
	defer closeTarget()

	log.Infoln("Attached to process", *pidFlag)

	s, err := peb.Inspect(target)
	if err != nil {
		fmt.Printf("Error reading PEB of process %d: %v\n", *pidFlag, err)
		os.Exit(1)
	}

	fmt.Printf("Mode:              %s\n", s.Mode)
	fmt.Printf("PEB:               %s\n", s.Peb.ToString())
	if s.Mode == process.ModeEmulated32 {
		fmt.Printf("WOW64 PEB:         %s\n", s.Wow64Peb.ToString())
	}
	fmt.Printf("ImageBaseAddress:  %s\n", s.ImageBase.ToString())
	fmt.Printf("ProcessParameters: %s\n", s.ProcessParameters.ToString())
	fmt.Printf("ImagePathName:     %s\n", s.ImagePathName)
	fmt.Printf("CommandLine:       %s\n", s.CommandLine)
}
