package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# ColorSeason configuration
version: "1.0"

# Classification and outfit service
service:
  base_url: "http://localhost:8000"
  # Request timeout; 0 leaves it to the transport
  timeout: 0s
  # Ask the service for season descriptions
  include_description: true

# Countdown and crop applied to camera captures
capture:
  countdown_seconds: 3
  countdown_interval: 1s
  # Side of the square crop relative to the shorter frame dimension
  crop_ratio: 0.9
  # Flip captures horizontally to match the live preview
  mirror: true

# Frame acquisition
camera:
  device: "/dev/video0"
  # Command that writes one encoded frame to stdout
  command:
    - ffmpeg
    - -loglevel
    - error
    - -f
    - v4l2
    - -i
    - /dev/video0
    - -frames:v
    - "1"
    - -f
    - image2pipe
    - -vcodec
    - png
    - "-"

# File selection checks
upload:
  max_file_size: 5242880 # 5MB
  allowed_types: ["image/jpeg", "image/jpg", "image/png"]

# Outfit recommendations
outfits:
  page_size: 12
  # all, male or female; used by headless commands
  default_gender: "all"

# Output formatting
output:
  default_format: "text" # text, json, markdown or csv
  color_mode: "auto"     # auto, always or never
  verbose: false
  theme: "default"       # default, high-contrast or minimal
  # Interactive mode writes logs here instead of the terminal
  log_file: ""
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "http://localhost:8000"
capture:
  countdown_seconds: 3
output:
  default_format: "text"
`
}
