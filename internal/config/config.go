package config

type Config struct {
	Server struct {
		Addr            string `json:"addr"`
		ReadTimeout     int    `json:"read_timeout"`
		WriteTimeout    int    `json:"write_timeout"`
		ShutdownTimeout int    `json:"shutdown_timeout"`
	} `json:"server"`

	// Engine selects the browser backend: "chromedp" or "rod".
	Engine string `json:"engine"`

	Chromedp struct {
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
	} `json:"chromedp"`

	Rod struct {
		Headless           bool   `json:"headless"`
		DisableDevShmUsage bool   `json:"disable_dev_shm_usage"`
		NoSandbox          bool   `json:"no_sandbox"`
		UserAgent          string `json:"user_agent"`
		Leakless           bool   `json:"leakless"`
		Bin                string `json:"bin"`
	} `json:"rod"`

	Scraper struct {
		NavigationTimeoutSeconds int `json:"navigation_timeout_seconds"`
		ScrollTimes              int `json:"scroll_times"`
		ScrollDelayMillis        int `json:"scroll_delay_millis"`
		SettleSeconds            int `json:"settle_seconds"`
		ConsentWaitSeconds       int `json:"consent_wait_seconds"`
		ConsentSettleSeconds     int `json:"consent_settle_seconds"`
		RespChanSize             int `json:"resp_chan_size"`
	} `json:"scraper"`
}
