package main

import "fmt"

func completionMain(args []string) {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	default:
		log.Fatalf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

const bashCompletion = `
_inkpad_completions()
{
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "check play history config completion --config --c --url" -- "$cur") $(compgen -f -X '!*.ink' -- "$cur") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        history)
            COMPREPLY=( $(compgen -W "--show --n" -- "$cur") )
            ;;
        config)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "init show" -- "$cur") )
            else
                COMPREPLY=( $(compgen -W "--config --c --force" -- "$cur") )
            fi
            ;;
        play)
            COMPREPLY=( $(compgen -W "--config --c --no-save" -- "$cur") $(compgen -f -X '!*.ink' -- "$cur") )
            ;;
        *)
            COMPREPLY=( $(compgen -W "--config --c" -- "$cur") $(compgen -f -X '!*.ink' -- "$cur") )
            ;;
    esac
}
complete -F _inkpad_completions inkpad
`

const zshCompletion = `
#compdef inkpad
_inkpad() {
    local -a subcmds
    subcmds=('check:report script problems' 'play:play a script in the terminal' 'history:list saved playthroughs' 'config:write or show the config file' 'completion:print shell completions')
    if (( CURRENT == 2 )); then
        _describe 'command' subcmds
        _files -g '*.ink'
        return
    fi
    case "$words[2]" in
        completion)
            _values 'shell' bash zsh
            ;;
        config)
            _values 'action' init show
            ;;
        history)
            _arguments \
                '--show[Print the transcript of a saved playthrough]' \
                '--n[Maximum number of playthroughs to list]'
            ;;
        play)
            _arguments \
                '--config[Path to config file]' \
                '--c[Config key=value override]' \
                '--no-save[Do not save the playthrough]' \
                '*:script:_files -g "*.ink"'
            ;;
        *)
            _arguments \
                '--config[Path to config file]' \
                '--c[Config key=value override]' \
                '*:script:_files -g "*.ink"'
            ;;
    esac
}
_inkpad "$@"
`
