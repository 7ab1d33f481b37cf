package bundle

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// HostBinaryOverrideEnv names the environment variable that, when set,
// supplies an alternative source binary for MakeSelfContained's copy
// step instead of hostExePath.
const HostBinaryOverrideEnv = "LULUC_HOST_BINARY"

// MakeSelfContained copies the host interpreter executable to
// outputPath and appends modules as a bundle: the decoder's
// trailer-based discovery makes the prefix contents (the copied
// interpreter binary) irrelevant to reading the bundle back out. File handles are scoped with guaranteed
// release on every exit path; the codec never retains one.
func MakeSelfContained(hostExePath, outputPath string, modules map[string]Module) (err error) {
	source := hostExePath
	if override := os.Getenv(HostBinaryOverrideEnv); override != "" {
		log.Debugf("bundle: %s overrides host binary %q with %q", HostBinaryOverrideEnv, hostExePath, override)
		source = override
	}

	in, err := os.Open(source)
	if err != nil {
		log.Warnf("bundle: unable to open host binary %q: %v", source, err)
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		log.Warnf("bundle: unable to stat host binary %q: %v", source, err)
		return err
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		log.Warnf("bundle: unable to create self-contained output %q: %v", outputPath, err)
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		log.Warnf("bundle: failed copying host binary into %q: %v", outputPath, err)
		return err
	}

	log.Debugf("bundle: appending %d module(s) to %q", len(modules), outputPath)

	err = Encode(out, modules)

	return err
}
